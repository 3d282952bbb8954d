// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

const (
	TransportHTTP     = "http"
	TransportMCPStdio = "mcp-stdio"
	TransportMCPHTTP  = "mcp-http"
)

type Config struct {
	Port      string `env:"PORT"              envDefault:"8080"`
	Transport string `env:"BILLING_TRANSPORT" envDefault:"http"`

	// DBPath selects the SQLite repository; empty keeps situations in memory.
	DBPath string `env:"BILLING_DB_PATH"`

	ContractsURL     string        `env:"BILLING_CONTRACTS_URL"`
	ContractsFile    string        `env:"BILLING_CONTRACTS_FILE"`
	ContractsTimeout time.Duration `env:"BILLING_CONTRACTS_TIMEOUT" envDefault:"2s"`

	RetentionRate decimal.Decimal `env:"BILLING_RETENTION_RATE" envDefault:"0.05"`
	SingleDraft   bool            `env:"BILLING_SINGLE_DRAFT"   envDefault:"true"`
}

// Load parses the environment and checks the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Transport {
	case TransportHTTP, TransportMCPStdio, TransportMCPHTTP:
	default:
		return fmt.Errorf("BILLING_TRANSPORT must be one of %s, %s, %s; got %q", TransportHTTP, TransportMCPStdio, TransportMCPHTTP, c.Transport)
	}
	if c.RetentionRate.IsNegative() || c.RetentionRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("BILLING_RETENTION_RATE must be within [0, 1], got %s", c.RetentionRate)
	}
	if c.ContractsTimeout <= 0 {
		return fmt.Errorf("BILLING_CONTRACTS_TIMEOUT must be positive, got %s", c.ContractsTimeout)
	}
	return nil
}

// Addr is the listen address for the HTTP transports.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
