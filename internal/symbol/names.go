package symbol

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table is a read-only ticker-to-company-name lookup, loaded once at startup
// and passed by reference to whoever needs it.
type Table struct {
	names map[string]string
}

// LoadTable reads a YAML map of ticker to company name.
func LoadTable(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read symbol table: %w", err)
	}

	names := make(map[string]string)
	if err := yaml.Unmarshal(b, &names); err != nil {
		return nil, fmt.Errorf("parse symbol table: %w", err)
	}

	return &Table{names: names}, nil
}

// NewTable builds a table from an in-memory map. Used in tests.
func NewTable(names map[string]string) *Table {
	if names == nil {
		names = make(map[string]string)
	}
	return &Table{names: names}
}

// Name returns the company name for a ticker, falling back to the ticker
// itself when unknown.
func (t *Table) Name(ticker string) string {
	if name, ok := t.names[ticker]; ok {
		return name
	}
	return ticker
}

// Len reports the number of known symbols.
func (t *Table) Len() int {
	return len(t.names)
}
