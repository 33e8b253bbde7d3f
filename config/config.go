package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yeremiapane/pizzagpt/services"
	"github.com/yeremiapane/pizzagpt/utils"
)

type Config struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`

	DBDriver       string `yaml:"db_driver"`
	DBDSN          string `yaml:"db_dsn"`
	DBLogLevel     string `yaml:"db_log_level"`
	DBMaxOpenConns int    `yaml:"db_max_open_conns"`
	SQLDumpPath    string `yaml:"sql_dump"`

	TaxRateBasisPoints int64 `yaml:"tax_rate_bps"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	CORSOrigin     string  `yaml:"cors_origin"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	// ToolsJWTSecret enables bearer auth on /tools when set.
	ToolsJWTSecret string `yaml:"tools_jwt_secret"`
}

func defaults() *Config {
	return &Config{
		Port:               "8000",
		GinMode:            "debug",
		DBDriver:           DriverSQLite,
		DBDSN:              "pizzagpt.db",
		DBLogLevel:         "warn",
		DBMaxOpenConns:     10,
		SQLDumpPath:        "seed_dump.sql",
		TaxRateBasisPoints: services.DefaultTaxRateBasisPoints,
		LogLevel:           "info",
		LogFormat:          "text",
		CORSOrigin:         "*",
		RateLimitRPS:       10,
		RateLimitBurst:     20,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then .env and the process environment. Later sources
// win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", cfg.DBDriver))
	cfg.DBDSN = getEnv("DB_DSN", cfg.DBDSN)
	cfg.DBLogLevel = getEnv("DB_LOG_LEVEL", cfg.DBLogLevel)
	cfg.SQLDumpPath = getEnv("DB_SQL_DUMP", cfg.SQLDumpPath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.CORSOrigin = getEnv("CORS_ORIGIN", cfg.CORSOrigin)
	cfg.ToolsJWTSecret = getEnv("TOOLS_JWT_SECRET", cfg.ToolsJWTSecret)

	var err error
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns); err != nil {
		return nil, err
	}
	if cfg.TaxRateBasisPoints, err = getEnvInt64("TAX_RATE_BPS", cfg.TaxRateBasisPoints); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); v != "" {
		if cfg.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.TaxRateBasisPoints < 0 {
		return fmt.Errorf("TAX_RATE_BPS must be >= 0, got %d", c.TaxRateBasisPoints)
	}
	return nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
