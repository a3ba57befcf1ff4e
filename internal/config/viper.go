// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/txcat/internal/dateutils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by the configuration.
const EnvPrefix = "TXCAT"

// Supported values
const (
	FormatText     = "text"
	FormatJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// TransactionColumns names the CSV header of each transaction field.
type TransactionColumns struct {
	Date        string `mapstructure:"date" yaml:"date"`
	Description string `mapstructure:"description" yaml:"description"`
	Amount      string `mapstructure:"amount" yaml:"amount"`
	Credit      string `mapstructure:"credit" yaml:"credit"`
	Debit       string `mapstructure:"debit" yaml:"debit"`
	Check       string `mapstructure:"check" yaml:"check"`
}

// CategoryColumns names the CSV header of each category field.
type CategoryColumns struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Keywords string `mapstructure:"keywords" yaml:"keywords"`
}

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Columns struct {
			Transactions TransactionColumns `mapstructure:"transactions" yaml:"transactions"`
			Categories   CategoryColumns    `mapstructure:"categories" yaml:"categories"`
		} `mapstructure:"columns" yaml:"columns"`
	} `mapstructure:"csv" yaml:"csv"`

	Report struct {
		DateLayout string   `mapstructure:"date_layout" yaml:"date_layout"`
		Format     string   `mapstructure:"format" yaml:"format"`
		Verbose    bool     `mapstructure:"verbose" yaml:"verbose"`
		Only       []string `mapstructure:"only" yaml:"only"`
		FromDate   string   `mapstructure:"from_date" yaml:"from_date"`
		ToDate     string   `mapstructure:"to_date" yaml:"to_date"`
	} `mapstructure:"report" yaml:"report"`

	Categorization struct {
		Interactive bool `mapstructure:"interactive" yaml:"interactive"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Ledger struct {
		Driver string `mapstructure:"driver" yaml:"driver"`
		DSN    string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"ledger" yaml:"ledger"`
}

// NewViper creates a Viper instance with defaults, the optional config file
// and environment bindings applied. When configFile is empty the standard
// locations are searched and a missing file is not an error.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.txcat")
		v.AddConfigPath(".txcat")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	return v, nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig(configFile string) (*Config, error) {
	v, err := NewViper(configFile)
	if err != nil {
		return nil, err
	}
	return Load(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", FormatText)

	// CSV column defaults
	v.SetDefault("csv.columns.transactions.date", "Date")
	v.SetDefault("csv.columns.transactions.description", "Name")
	v.SetDefault("csv.columns.transactions.amount", "Amount")
	v.SetDefault("csv.columns.transactions.credit", "Credit")
	v.SetDefault("csv.columns.transactions.debit", "Debit")
	v.SetDefault("csv.columns.transactions.check", "Check")
	v.SetDefault("csv.columns.categories.name", "Name")
	v.SetDefault("csv.columns.categories.keywords", "Keywords")

	// Report defaults
	v.SetDefault("report.date_layout", "1/2/2006")
	v.SetDefault("report.format", FormatText)
	v.SetDefault("report.verbose", false)
	v.SetDefault("report.only", []string{})
	v.SetDefault("report.from_date", "")
	v.SetDefault("report.to_date", "")

	// Categorization defaults
	v.SetDefault("categorization.interactive", false)

	// Ledger defaults
	v.SetDefault("ledger.driver", DriverSQLite)
	v.SetDefault("ledger.dsn", "txcat.db")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != FormatText && config.Log.Format != FormatJSON {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Report.Format != FormatText && config.Report.Format != FormatJSON {
		return fmt.Errorf("invalid report format: %s (must be 'text' or 'json')", config.Report.Format)
	}

	if config.Ledger.Driver != DriverSQLite && config.Ledger.Driver != DriverPostgres {
		return fmt.Errorf("invalid ledger driver: %s (must be 'sqlite' or 'postgres')", config.Ledger.Driver)
	}

	tx := config.CSV.Columns.Transactions
	cat := config.CSV.Columns.Categories
	for name, column := range map[string]string{
		"transactions.date":        tx.Date,
		"transactions.description": tx.Description,
		"transactions.amount":      tx.Amount,
		"categories.name":          cat.Name,
		"categories.keywords":      cat.Keywords,
	} {
		if strings.TrimSpace(column) == "" {
			return fmt.Errorf("csv.columns.%s must not be empty", name)
		}
	}

	if _, _, err := config.DateRange(); err != nil {
		return err
	}

	return nil
}

// DateRange parses the configured report date filter. Unset bounds are nil.
func (c *Config) DateRange() (from, to *time.Time, err error) {
	from, err = dateutils.ParseOptionalDate(c.Report.FromDate)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid report.from_date: %w", err)
	}
	to, err = dateutils.ParseOptionalDate(c.Report.ToDate)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid report.to_date: %w", err)
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("report.from_date %s is after report.to_date %s",
			c.Report.FromDate, c.Report.ToDate)
	}
	return from, to, nil
}

