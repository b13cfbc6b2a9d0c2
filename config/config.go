/*
Package config loads the run configuration from a YAML file with
environment-variable overrides.

PURPOSE:
  One immutable configuration struct per process. The benefit split, the
  default daily rate, and the optional total-value clamps feed the
  calculator; the rest wires the server, cache, and logging.

PRECEDENCE:
  defaults < YAML file < BENEFIT_* environment variables

EXAMPLE FILE:
  reference:
    month: 1
    year: 2025
  benefit:
    company_percentage: 80
    employee_percentage: 20
    default_daily_rate: "25.00"
    min_total: "10.00"
    max_total: "1000.00"
  cache:
    path: ./data/runs.db
    ttl_hours: 24
  server:
    port: 8080
  log:
    level: info
    format: console
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/engine"
	"github.com/warp/benefit-engine/logging"
)

// Config is the full process configuration.
type Config struct {
	Reference ReferenceConfig `yaml:"reference"`
	Benefit   BenefitConfig   `yaml:"benefit"`
	Cache     CacheConfig     `yaml:"cache"`
	Server    ServerConfig    `yaml:"server"`
	Log       logging.Config  `yaml:"log"`
}

type ReferenceConfig struct {
	Month int `yaml:"month"`
	Year  int `yaml:"year"`
}

type BenefitConfig struct {
	CompanyPercentage  string `yaml:"company_percentage"`
	EmployeePercentage string `yaml:"employee_percentage"`
	DefaultDailyRate   string `yaml:"default_daily_rate"`
	MinTotal           string `yaml:"min_total"`
	MaxTotal           string `yaml:"max_total"`
}

type CacheConfig struct {
	Path     string `yaml:"path"`
	TTLHours int    `yaml:"ttl_hours"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns the built-in configuration: 80/20 split, 25.00 default
// rate, no clamps, cache disabled.
func Default() Config {
	now := time.Now()
	return Config{
		Reference: ReferenceConfig{Month: int(now.Month()), Year: now.Year()},
		Benefit: BenefitConfig{
			CompanyPercentage:  "80",
			EmployeePercentage: "20",
			DefaultDailyRate:   "25.00",
		},
		Server: ServerConfig{Port: 8080},
		Log:    logging.DefaultConfig(),
	}
}

// Load reads the YAML file (optional) and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Reference.Month < 1 || cfg.Reference.Month > 12 {
		return Config{}, fmt.Errorf("%w: %d", benefit.ErrInvalidReference, cfg.Reference.Month)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BENEFIT_COMPANY_PERCENTAGE"); v != "" {
		cfg.Benefit.CompanyPercentage = v
	}
	if v := os.Getenv("BENEFIT_EMPLOYEE_PERCENTAGE"); v != "" {
		cfg.Benefit.EmployeePercentage = v
	}
	if v := os.Getenv("BENEFIT_DEFAULT_DAILY_RATE"); v != "" {
		cfg.Benefit.DefaultDailyRate = v
	}
	if v := os.Getenv("BENEFIT_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("BENEFIT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("BENEFIT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// EngineConfig converts the benefit section into the calculator's
// immutable configuration.
func (c Config) EngineConfig() (engine.Config, error) {
	ec := engine.DefaultConfig()

	var err error
	if ec.CompanyPercentage, err = decimal.NewFromString(c.Benefit.CompanyPercentage); err != nil {
		return engine.Config{}, fmt.Errorf("company_percentage: %w", err)
	}
	if ec.EmployeePercentage, err = decimal.NewFromString(c.Benefit.EmployeePercentage); err != nil {
		return engine.Config{}, fmt.Errorf("employee_percentage: %w", err)
	}
	if ec.DefaultDailyRate, err = decimal.NewFromString(c.Benefit.DefaultDailyRate); err != nil {
		return engine.Config{}, fmt.Errorf("default_daily_rate: %w", err)
	}

	if c.Benefit.MinTotal != "" {
		min, err := decimal.NewFromString(c.Benefit.MinTotal)
		if err != nil {
			return engine.Config{}, fmt.Errorf("min_total: %w", err)
		}
		ec.MinTotal = &min
	}
	if c.Benefit.MaxTotal != "" {
		max, err := decimal.NewFromString(c.Benefit.MaxTotal)
		if err != nil {
			return engine.Config{}, fmt.Errorf("max_total: %w", err)
		}
		ec.MaxTotal = &max
	}

	if err := ec.Validate(); err != nil {
		return engine.Config{}, err
	}
	return ec, nil
}

// CacheTTL returns the configured cache TTL.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}
