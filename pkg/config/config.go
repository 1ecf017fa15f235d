package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lab1702/trading-app/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	MarketData struct {
		BaseURL      string        `yaml:"base_url"`
		Timeout      time.Duration `yaml:"timeout"`
		RetryMax     int           `yaml:"retry_max"`
		RetryBackoff time.Duration `yaml:"retry_backoff"`
		HistoryYears int           `yaml:"history_years"`
	} `yaml:"marketdata"`
	Symbols struct {
		MaxLength int    `yaml:"max_length"`
		NamesFile string `yaml:"names_file"`
	} `yaml:"symbols"`
	Strategy struct {
		Candidates int `yaml:"candidates"`
	} `yaml:"strategy"`
	Forecast struct {
		HorizonDays     int `yaml:"horizon_days"`
		MinObservations int `yaml:"min_observations"`
	} `yaml:"forecast"`
	Cache struct {
		MaxEntries int           `yaml:"max_entries"`
		SeriesTTL  time.Duration `yaml:"series_ttl"`
		DerivedTTL time.Duration `yaml:"derived_ttl"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Notify struct {
		ErrorTTL   time.Duration `yaml:"error_ttl"`
		WarningTTL time.Duration `yaml:"warning_ttl"`
		MaxPending int           `yaml:"max_pending"`
	} `yaml:"notify"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MARKETDATA_BASE_URL"); v != "" {
		c.MarketData.BaseURL = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Enabled = true
		host, port, ok := splitHostPort(v)
		if ok {
			c.Cache.Redis.Host = host
			c.Cache.Redis.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

// Default returns the configuration used when no file is given. All tunables
// mirror the documented defaults: 5 year lookback, 90 day forecast horizon,
// 10 character symbols, one strategy candidate per level.
func Default() *Config {
	c := &Config{Environment: "development"}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.MarketData.BaseURL == "" {
		c.MarketData.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.MarketData.Timeout == 0 {
		c.MarketData.Timeout = 30 * time.Second
	}
	if c.MarketData.RetryMax == 0 {
		c.MarketData.RetryMax = 3
	}
	if c.MarketData.RetryBackoff == 0 {
		c.MarketData.RetryBackoff = 250 * time.Millisecond
	}
	if c.MarketData.HistoryYears == 0 {
		c.MarketData.HistoryYears = 5
	}
	if c.Symbols.MaxLength == 0 {
		c.Symbols.MaxLength = 10
	}
	if c.Strategy.Candidates == 0 {
		c.Strategy.Candidates = 1
	}
	if c.Forecast.HorizonDays == 0 {
		c.Forecast.HorizonDays = 90
	}
	if c.Forecast.MinObservations == 0 {
		c.Forecast.MinObservations = 30
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 256
	}
	if c.Cache.SeriesTTL == 0 {
		c.Cache.SeriesTTL = 15 * time.Minute
	}
	if c.Cache.DerivedTTL == 0 {
		c.Cache.DerivedTTL = 15 * time.Minute
	}
	if c.Cache.Redis.Host == "" {
		c.Cache.Redis.Host = "localhost"
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
	if c.Notify.ErrorTTL == 0 {
		c.Notify.ErrorTTL = 5 * time.Second
	}
	if c.Notify.WarningTTL == 0 {
		c.Notify.WarningTTL = 3 * time.Second
	}
	if c.Notify.MaxPending == 0 {
		c.Notify.MaxPending = 64
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.MarketData.BaseURL == "" {
		return fmt.Errorf("marketdata.base_url is required")
	}
	if c.MarketData.HistoryYears <= 0 {
		return fmt.Errorf("marketdata.history_years must be positive, got %d", c.MarketData.HistoryYears)
	}
	if c.Symbols.MaxLength <= 0 {
		return fmt.Errorf("symbols.max_length must be positive, got %d", c.Symbols.MaxLength)
	}
	if c.Forecast.HorizonDays <= 0 {
		return fmt.Errorf("forecast.horizon_days must be positive, got %d", c.Forecast.HorizonDays)
	}
	if c.Strategy.Candidates <= 0 {
		return fmt.Errorf("strategy.candidates must be positive, got %d", c.Strategy.Candidates)
	}
	return nil
}

func splitHostPort(addr string) (string, int, bool) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			p, err := strconv.Atoi(addr[i+1:])
			if err != nil {
				return "", 0, false
			}
			return addr[:i], p, true
		}
	}
	return "", 0, false
}
