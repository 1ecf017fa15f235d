package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
	if got := ParseIntDefault("abc", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 1, 10) != 5 || Clamp(-1, 1, 10) != 1 || Clamp(99, 1, 10) != 10 {
		t.Fatal("clamp broken")
	}
}
