package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Finance
	CurrencySymbol string
	TaxTablesPath  string
	// CommuteDeductionRate is the fixed fraction of base salary withheld
	// for commute-benefit eligible employees (0.06 by statute).
	CommuteDeductionRate decimal.Decimal
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	commuteRate, err := decimal.NewFromString(getEnv("COMMUTE_DEDUCTION_RATE", "0.06"))
	if err != nil {
		return nil, fmt.Errorf("COMMUTE_DEDUCTION_RATE is not a valid decimal: %w", err)
	}

	cfg := &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		Port:                 getEnv("PORT", "8080"),
		CORSOrigins:          strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:                  getEnv("ENV", "development"),
		CurrencySymbol:       getEnv("CURRENCY_SYMBOL", "R$"),
		TaxTablesPath:        getEnv("TAX_TABLES_PATH", "config/tax_tables.yaml"),
		CommuteDeductionRate: commuteRate,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.TaxTablesPath == "" {
		return fmt.Errorf("TAX_TABLES_PATH is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
