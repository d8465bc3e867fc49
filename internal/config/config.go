package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kapu/osint-footprint-go/pkg/errors"
)

type Config struct {
	Logging  LoggingConfig
	Worker   WorkerConfig
	Analysis AnalysisConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	File   string
	Format string `validate:"oneof=console json"`
}

type WorkerConfig struct {
	PoolSize        int           `validate:"min=1,max=32"`
	PlatformTimeout time.Duration `validate:"gt=0"`
	ReportDeadline  time.Duration `validate:"gtefield=PlatformTimeout"`
	Platforms       []string      `validate:"dive,required,max=64"`
}

type AnalysisConfig struct {
	MaxScanDepth int `validate:"min=1,max=64"`
	TopN         int `validate:"min=1,max=100"`
	MarkersFile  string
}

type RedisConfig struct {
	Enabled   bool
	Host      string `validate:"required_if=Enabled true"`
	Port      int    `validate:"min=1,max=65535"`
	Password  string
	DB        int `validate:"min=0,max=15"`
	ResultTTL time.Duration
}

type PostgresConfig struct {
	Enabled  bool
	Host     string `validate:"required_if=Enabled true"`
	Port     int    `validate:"min=1,max=65535"`
	User     string `validate:"required_if=Enabled true"`
	Password string
	Database string `validate:"required_if=Enabled true"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			File:   getEnv("LOG_FILE", ""),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Worker: WorkerConfig{
			PoolSize:        getEnvInt("WORKER_POOL_SIZE", 3),
			PlatformTimeout: getEnvDuration("PLATFORM_TIMEOUT_SECONDS", 30*time.Second),
			ReportDeadline:  getEnvDuration("REPORT_DEADLINE_SECONDS", 300*time.Second),
			Platforms:       parseCommaSeparated(getEnv("PLATFORMS", "tiktok,instagram,twitter,github,reddit")),
		},
		Analysis: AnalysisConfig{
			MaxScanDepth: getEnvInt("MAX_SCAN_DEPTH", 5),
			TopN:         getEnvInt("TOP_N", 5),
			MarkersFile:  getEnv("MARKERS_FILE", ""),
		},
		Redis: RedisConfig{
			Enabled:   getEnvBool("REDIS_ENABLED", false),
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnvInt("REDIS_PORT", 6379),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			ResultTTL: time.Duration(getEnvInt("RESULT_CACHE_TTL_MINUTES", 30)) * time.Minute,
		},
		Postgres: PostgresConfig{
			Enabled:  getEnvBool("POSTGRES_ENABLED", false),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "osint"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "osint"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the loaded values. Any failure is a FatalInitError.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.NewFatalInitError("config validation failed", "config", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration reads a whole number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, strings.ToLower(trimmed))
		}
	}
	return result
}
