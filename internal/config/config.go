package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/printdesk/internal/logging"
)

const (
	defaultConfigFile = "printdesk.yaml"
	defaultDBPath     = "./dev.db"
	defaultPort       = "8080"
	defaultCurrency   = "COP"
)

// Config holds application configuration.
type Config struct {
	Env           string `yaml:"env"`
	Port          string `yaml:"port"`
	DBPath        string `yaml:"db_path"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
	SessionSecret string `yaml:"session_secret"`

	Currency              string        `yaml:"currency"`
	ElectricityCostPerKWh float64       `yaml:"electricity_cost_per_kwh"`
	DefaultProfitMargin   float64       `yaml:"default_profit_margin"`
	DefaultTaxPercent     float64       `yaml:"default_tax_percent"`
	CatalogCacheTTL       time.Duration `yaml:"catalog_cache_ttl"`

	Log logging.Config `yaml:"log"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Env:                 "dev",
		Port:                defaultPort,
		DBPath:              defaultDBPath,
		Currency:            defaultCurrency,
		DefaultProfitMargin: 40,
		DefaultTaxPercent:   19,
		CatalogCacheTTL:     30 * time.Second,
		Log:                 logging.DefaultConfig(),
	}
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == "dev" || c.Env == "development"
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var warnings []string
	if c.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set")
	}
	return warnings
}

// Load reads configuration with the precedence defaults < YAML file < .env <
// environment. The YAML path comes from PRINTDESK_CONFIG.
func Load() (Config, error) {
	// Best-effort: production should inject real environment variables.
	_ = loadDotEnv(".env")

	path := os.Getenv("PRINTDESK_CONFIG")
	if path == "" {
		path = defaultConfigFile
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit YAML path. A missing file is not an error.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, path); err != nil {
		return Config{}, err
	}
	if err := loadEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.Port, "PORT")
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.AdminPassword, "ADMIN_PASSWORD")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.Currency, "CURRENCY")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	if err := setFloat(&cfg.ElectricityCostPerKWh, "ELECTRICITY_COST_PER_KWH"); err != nil {
		return err
	}
	if err := setFloat(&cfg.DefaultProfitMargin, "DEFAULT_PROFIT_MARGIN"); err != nil {
		return err
	}
	if err := setFloat(&cfg.DefaultTaxPercent, "DEFAULT_TAX_PERCENT"); err != nil {
		return err
	}
	if v := os.Getenv("CATALOG_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse CATALOG_CACHE_TTL: %w", err)
		}
		cfg.CatalogCacheTTL = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = f
	return nil
}
