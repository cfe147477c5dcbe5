// Package config loads reconciler settings from a YAML file, a .env file
// and RECON_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DefaultPath is read when no -config flag is given.
const DefaultPath = "configs/config.yaml"

// Mapping sources.
const (
	MappingsNone     = "none"
	MappingsFile     = "file"
	MappingsPostgres = "postgres"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

type Config struct {
	App struct {
		Name string `mapstructure:"name"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`

	Ledger struct {
		// HeaderRow is the zero-based raw row holding the real ledger header.
		HeaderRow int `mapstructure:"header_row"`
	} `mapstructure:"ledger"`

	Mappings struct {
		Source string `mapstructure:"source"`
		File   string `mapstructure:"file"`
	} `mapstructure:"mappings"`

	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`

	Journal struct {
		EntryPrefix           string  `mapstructure:"entry_prefix"`
		IncludeProcessingFees bool    `mapstructure:"include_processing_fees"`
		Allocation            string  `mapstructure:"allocation"`
		BalanceTolerance      float64 `mapstructure:"balance_tolerance"`
		RoundingLimit         float64 `mapstructure:"rounding_limit"`
	} `mapstructure:"journal"`

	Output struct {
		Format string `mapstructure:"format"`
		Dir    string `mapstructure:"dir"`
	} `mapstructure:"output"`
}

// BalanceTolerance is journal.balance_tolerance as a decimal.
func (c *Config) BalanceTolerance() decimal.Decimal {
	return decimal.NewFromFloat(c.Journal.BalanceTolerance)
}

// RoundingLimit is journal.rounding_limit as a decimal.
func (c *Config) RoundingLimit() decimal.Decimal {
	return decimal.NewFromFloat(c.Journal.RoundingLimit)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "booking-reconciliation")
	v.SetDefault("app.env", "development")
	v.SetDefault("ledger.header_row", 4)
	v.SetDefault("mappings.source", MappingsNone)
	v.SetDefault("mappings.file", "")
	v.SetDefault("database.url", "")
	v.SetDefault("journal.entry_prefix", "JE")
	v.SetDefault("journal.include_processing_fees", false)
	v.SetDefault("journal.allocation", "proportional")
	v.SetDefault("journal.balance_tolerance", 0.01)
	v.SetDefault("journal.rounding_limit", 5.00)
	v.SetDefault("output.format", FormatJSON)
	v.SetDefault("output.dir", "")
}

// Load reads the configuration. A missing config file is not an error: the
// defaults and environment still apply.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated settings and thresholds.
func (c *Config) Validate() error {
	switch c.Mappings.Source {
	case MappingsNone:
	case MappingsFile:
		if c.Mappings.File == "" {
			return errors.New("mappings.source is file but mappings.file is empty")
		}
	case MappingsPostgres:
		if c.Database.URL == "" {
			return errors.New("mappings.source is postgres but database.url is empty")
		}
	default:
		return fmt.Errorf("unknown mappings.source %q", c.Mappings.Source)
	}

	switch c.Output.Format {
	case FormatJSON, FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("unknown output.format %q", c.Output.Format)
	}

	switch c.Journal.Allocation {
	case "proportional", "simple":
	default:
		return fmt.Errorf("unknown journal.allocation %q", c.Journal.Allocation)
	}

	if c.Ledger.HeaderRow < 0 {
		return fmt.Errorf("ledger.header_row must not be negative, got %d", c.Ledger.HeaderRow)
	}
	if c.Journal.BalanceTolerance < 0 || c.Journal.RoundingLimit < c.Journal.BalanceTolerance {
		return fmt.Errorf("journal thresholds must satisfy 0 <= balance_tolerance (%v) <= rounding_limit (%v)",
			c.Journal.BalanceTolerance, c.Journal.RoundingLimit)
	}
	return nil
}
