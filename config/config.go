// Package config reads the srep configuration file.
//
// A configuration names the tax year, where the broker exports are, where the reports go,
// and the stock split to apply:
//
//	year: 2024
//	stock_splits:
//	  - date: "2024-06-07"
//	    ratio: 10
//	directories:
//	  transactions: transactions
//	  reports: reports
//	file_patterns:
//	  eac_transactions: "EAC_transactions_{year}.csv"
//	  individual_transactions: "Individual_transactions_{year}.csv"
//	  individual_realized_gains: "Individual_realized_gains_{year}.csv"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/schwab"
	"github.com/etnz/schwab/date"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "config.yaml"

// EnvVar names the environment variable that overrides DefaultPath.
const EnvVar = "SREP_CONFIG"

// Keys of the file patterns.
const (
	EACTransactions         = "eac_transactions"
	IndividualTransactions  = "individual_transactions"
	IndividualRealizedGains = "individual_realized_gains"
)

// Config is the content of a configuration file.
type Config struct {
	Year         int               `yaml:"year"`
	StockSplits  []Split           `yaml:"stock_splits"`
	Directories  Directories       `yaml:"directories"`
	FilePatterns map[string]string `yaml:"file_patterns"`
	Actions      Actions           `yaml:"actions,omitempty"`
	LogLevel     string            `yaml:"log_level,omitempty"`
}

// Split is a stock split entry.
type Split struct {
	Date  string  `yaml:"date"` // YYYY-MM-DD
	Ratio float64 `yaml:"ratio"`
}

// Directories are the input and output folders.
type Directories struct {
	Transactions string `yaml:"transactions"`
	Reports      string `yaml:"reports"`
}

// Actions are extra broker actions to classify, on top of the defaults.
type Actions struct {
	Dividend        []string `yaml:"dividend,omitempty"`
	Interest        []string `yaml:"interest,omitempty"`
	TaxDeducted     []string `yaml:"tax_deducted,omitempty"`
	PlanDividend    []string `yaml:"plan_dividend,omitempty"`
	PlanTaxDeducted []string `yaml:"plan_tax_deducted,omitempty"`
	Ignored         []string `yaml:"ignored,omitempty"`
}

// Default returns the configuration of the current year without any split.
func Default(year int) *Config {
	return &Config{
		Year: year,
		Directories: Directories{
			Transactions: "transactions",
			Reports:      "reports",
		},
		FilePatterns: map[string]string{
			EACTransactions:         "EAC_transactions_{year}.csv",
			IndividualTransactions:  "Individual_transactions_{year}.csv",
			IndividualRealizedGains: "Individual_realized_gains_{year}.csv",
		},
	}
}

// Path returns the configuration file to use: explicit if not empty, else the SREP_CONFIG
// environment variable, else DefaultPath.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads and validates the configuration file at path.
//
// Missing entries take their Default value. A missing file is an error matching
// fs.ErrNotExist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	c := Default(0)
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config error: invalid yaml in %q: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %q: %w", path, err)
	}
	return c, nil
}

// Validate checks the consistency of c.
func (c *Config) Validate() error {
	var errs []error
	if c.Year <= 0 {
		errs = append(errs, fmt.Errorf("year must be positive, got %d", c.Year))
	}
	for i, s := range c.StockSplits {
		if _, err := s.stockSplit(); err != nil {
			errs = append(errs, fmt.Errorf("stock_splits[%d]: %w", i, err))
		}
	}
	for _, key := range []string{EACTransactions, IndividualTransactions, IndividualRealizedGains} {
		if c.FilePatterns[key] == "" {
			errs = append(errs, fmt.Errorf("file_patterns: missing %q", key))
		}
	}
	if c.Directories.Reports == "" {
		errs = append(errs, errors.New("directories: missing \"reports\""))
	}
	return errors.Join(errs...)
}

func (s Split) stockSplit() (schwab.StockSplit, error) {
	on, err := date.Parse(s.Date)
	if err != nil {
		return schwab.StockSplit{}, err
	}
	return schwab.NewStockSplit(on, decimal.NewFromFloat(s.Ratio))
}

// StockSplit returns the stock split to apply, or the zero StockSplit if none.
// Only the first configured split is honored.
func (c *Config) StockSplit() (schwab.StockSplit, error) {
	if len(c.StockSplits) == 0 {
		return schwab.StockSplit{}, nil
	}
	return c.StockSplits[0].stockSplit()
}

// FilePath returns the path of the export named key, with "{year}" expanded.
func (c *Config) FilePath(key string) (string, error) {
	pattern, ok := c.FilePatterns[key]
	if !ok {
		return "", fmt.Errorf("unknown file pattern %q", key)
	}
	name := strings.ReplaceAll(pattern, "{year}", strconv.Itoa(c.Year))
	return filepath.Join(c.Directories.Transactions, name), nil
}

// SourcePaths returns the paths of the three broker exports.
func (c *Config) SourcePaths() (schwab.SourcePaths, error) {
	var p schwab.SourcePaths
	var err error
	if p.Individual, err = c.FilePath(IndividualTransactions); err != nil {
		return p, err
	}
	if p.Plan, err = c.FilePath(EACTransactions); err != nil {
		return p, err
	}
	if p.Realized, err = c.FilePath(IndividualRealizedGains); err != nil {
		return p, err
	}
	return p, nil
}

// ClassifyActions returns the default actions extended with the configured ones.
func (c *Config) ClassifyActions() schwab.Actions {
	return schwab.DefaultActions().Extend(schwab.Actions{
		Dividend:        c.Actions.Dividend,
		Interest:        c.Actions.Interest,
		TaxDeducted:     c.Actions.TaxDeducted,
		PlanDividend:    c.Actions.PlanDividend,
		PlanTaxDeducted: c.Actions.PlanTaxDeducted,
		Ignored:         c.Actions.Ignored,
	})
}
