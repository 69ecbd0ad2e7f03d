package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CurrencyRate is one fixed conversion rate. Order in the config file is
// the derived-column order in every sink.
type CurrencyRate struct {
	Code string  `yaml:"code"`
	Rate float64 `yaml:"rate"`
}

// Config holds all application configuration. It is loaded once at
// startup and passed explicitly; nothing reads it through globals.
type Config struct {
	Source struct {
		URL            string `yaml:"url"`
		AnchorID       string `yaml:"anchor_id"`
		NameColumn     int    `yaml:"name_column"`
		ValueColumn    int    `yaml:"value_column"`
		RowLimit       int    `yaml:"row_limit"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"source"`
	Output struct {
		CSVPath      string `yaml:"csv_path"`
		SQLitePath   string `yaml:"sqlite_path"`
		TableName    string `yaml:"table_name"`
		JournalPath  string `yaml:"journal_path"`
		PageDumpPath string `yaml:"page_dump_path"`
	} `yaml:"output"`
	Currencies []CurrencyRate `yaml:"currencies"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and fills defaults. A missing file is not an error; the
// defaults describe a complete run.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BANKS_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("BANKS_ANCHOR_ID"); v != "" {
		cfg.Source.AnchorID = v
	}
	if v := os.Getenv("FETCH_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Source.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("OUTPUT_CSV_PATH"); v != "" {
		cfg.Output.CSVPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Output.SQLitePath = v
	}
	if v := os.Getenv("BANKS_TABLE_NAME"); v != "" {
		cfg.Output.TableName = v
	}
	if v := os.Getenv("JOURNAL_PATH"); v != "" {
		cfg.Output.JournalPath = v
	}

	// Defaults
	if cfg.Source.URL == "" {
		cfg.Source.URL = "https://en.wikipedia.org/wiki/List_of_largest_banks"
	}
	if cfg.Source.AnchorID == "" {
		cfg.Source.AnchorID = "By_market_capitalization"
	}
	if cfg.Source.NameColumn == 0 && cfg.Source.ValueColumn == 0 {
		cfg.Source.NameColumn = 1
		cfg.Source.ValueColumn = 2
	}
	if cfg.Source.RowLimit == 0 {
		cfg.Source.RowLimit = 10
	}
	if cfg.Source.TimeoutSeconds == 0 {
		cfg.Source.TimeoutSeconds = 15
	}
	if cfg.Output.CSVPath == "" {
		cfg.Output.CSVPath = "Largest_banks_data.csv"
	}
	if cfg.Output.SQLitePath == "" {
		cfg.Output.SQLitePath = "Banks.db"
	}
	if cfg.Output.TableName == "" {
		cfg.Output.TableName = "Largest_banks"
	}
	if cfg.Output.JournalPath == "" {
		cfg.Output.JournalPath = "code_log.txt"
	}
	if cfg.Output.PageDumpPath == "" {
		cfg.Output.PageDumpPath = "page_source.html"
	}
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = []CurrencyRate{
			{Code: "GBP", Rate: 0.8},
			{Code: "EUR", Rate: 0.93},
			{Code: "INR", Rate: 83.33},
		}
	}

	return cfg, nil
}

// Validate checks the configuration before any I/O is attempted. A
// missing or non-positive rate is a configuration error here, never a
// silent zero downstream.
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	if c.Source.AnchorID == "" {
		return fmt.Errorf("source.anchor_id is required")
	}
	if c.Source.NameColumn < 0 || c.Source.ValueColumn < 0 {
		return fmt.Errorf("column indices must not be negative")
	}
	if c.Source.NameColumn == c.Source.ValueColumn {
		return fmt.Errorf("source.name_column and source.value_column must differ")
	}
	if c.Source.RowLimit <= 0 {
		return fmt.Errorf("source.row_limit must be positive")
	}
	if c.Source.TimeoutSeconds <= 0 {
		return fmt.Errorf("source.timeout_seconds must be positive")
	}
	if len(c.Currencies) == 0 {
		return fmt.Errorf("at least one currency rate is required")
	}
	seen := make(map[string]bool, len(c.Currencies))
	for _, cr := range c.Currencies {
		if cr.Code == "" {
			return fmt.Errorf("currency code must not be empty")
		}
		if seen[cr.Code] {
			return fmt.Errorf("currency %s configured twice", cr.Code)
		}
		seen[cr.Code] = true
		if cr.Rate <= 0 {
			return fmt.Errorf("currency %s: rate must be positive, got %v", cr.Code, cr.Rate)
		}
	}
	return nil
}

// CurrencyCodes returns the configured currency codes in configuration
// order.
func (c *Config) CurrencyCodes() []string {
	codes := make([]string, len(c.Currencies))
	for i, cr := range c.Currencies {
		codes[i] = cr.Code
	}
	return codes
}
