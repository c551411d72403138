// Package config loads scenario and runtime configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Game struct {
		Seed   int64  `yaml:"seed"`   // 0 = derive from crypto/rand
		Regime string `yaml:"regime"` // regime id, e.g. "golden_rule"
	} `yaml:"game"`
	Scenario struct {
		GDP              float64 `yaml:"gdp"`
		Growth           float64 `yaml:"growth"`
		Inflation        float64 `yaml:"inflation"`
		Unemployment     float64 `yaml:"unemployment"`
		GiltYield        float64 `yaml:"gilt_yield"`
		Approval         float64 `yaml:"approval"`
		ServiceQuality   float64 `yaml:"service_quality"`
		Revenue          float64 `yaml:"revenue"`
		CurrentSpending  float64 `yaml:"current_spending"`
		CapitalSpending  float64 `yaml:"capital_spending"`
		DebtInterest     float64 `yaml:"debt_interest"`
		DebtRatio        float64 `yaml:"debt_ratio"`
		DebtRatioPrev    float64 `yaml:"debt_ratio_prev"`
		TaxTake          float64 `yaml:"tax_take"`
		LockedTaxBase    float64 `yaml:"locked_tax_baseline"`
		SpendingBaseline float64 `yaml:"spending_baseline"`
	} `yaml:"scenario"`
	Content struct {
		TablePath string `yaml:"table_path"` // empty = built-in catalogue
	} `yaml:"content"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	API struct {
		Port     int    `yaml:"port"`
		AdminKey string `yaml:"admin_key"`
	} `yaml:"api"`
}

// Default returns the built-in scenario: a mid-sized economy at the start of
// a five-year term.
func Default() *Config {
	cfg := &Config{}
	cfg.Game.Regime = "golden_rule"
	cfg.Scenario.GDP = 2600
	cfg.Scenario.Growth = 1.4
	cfg.Scenario.Inflation = 2.0
	cfg.Scenario.Unemployment = 4.5
	cfg.Scenario.GiltYield = 3.5
	cfg.Scenario.Approval = 42
	cfg.Scenario.ServiceQuality = 55
	cfg.Scenario.Revenue = 1040
	cfg.Scenario.CurrentSpending = 980
	cfg.Scenario.CapitalSpending = 75
	cfg.Scenario.DebtInterest = 85
	cfg.Scenario.DebtRatio = 92
	cfg.Scenario.DebtRatioPrev = 93.5
	cfg.Scenario.TaxTake = 36.5
	cfg.Scenario.LockedTaxBase = 36.5
	cfg.Scenario.SpendingBaseline = 980
	cfg.Database.SQLitePath = "data/chancellor.db"
	cfg.API.Port = 8080
	return cfg
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

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
	if v := os.Getenv("CHANCELLOR_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Game.Seed = seed
		}
	}
	if v := os.Getenv("CHANCELLOR_REGIME"); v != "" {
		cfg.Game.Regime = v
	}
	if v := os.Getenv("CHANCELLOR_DB_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CHANCELLOR_ADMIN_KEY"); v != "" {
		cfg.API.AdminKey = v
	}
	if v := os.Getenv("CHANCELLOR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	return cfg, nil
}
