package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/todo-api/internal/constants"
)

const defaultSessionSecret = "default-secret-key-change-me"

// Database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Session backends
const (
	SessionBackendMemory   = "memory"
	SessionBackendDatabase = "database"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	SessionSecret        string
	SessionTTL           time.Duration
	SessionBackend       string
	SessionSweepInterval time.Duration

	LogLevel  string
	LogFormat string

	OpenAIAPIKey string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		GinMode:              getEnv("GIN_MODE", "debug"),
		DBDriver:             strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "3306"),
		DBUser:               getEnv("DB_USER", "taskuser"),
		DBPassword:           getEnv("DB_PASSWORD", "taskpassword"),
		DBName:               getEnv("DB_NAME", "todo_app"),
		DBPath:               getEnv("DB_PATH", "todo.db"),
		SessionSecret:        getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionTTL:           getDurationEnv("SESSION_TTL", constants.DefaultSessionTTL),
		SessionBackend:       strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
		SessionSweepInterval: getDurationEnv("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
	}
}

// IsProduction reports whether the server runs in gin release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Validate checks values that cannot be defaulted safely.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	switch c.SessionBackend {
	case SessionBackendMemory, SessionBackendDatabase:
	default:
		errs = append(errs, fmt.Errorf("unsupported SESSION_BACKEND %q", c.SessionBackend))
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.SessionSweepInterval <= 0 {
		errs = append(errs, errors.New("SESSION_SWEEP_INTERVAL must be positive"))
	}

	if c.IsProduction() && (c.SessionSecret == defaultSessionSecret || len(c.SessionSecret) < 32) {
		errs = append(errs, errors.New("SESSION_SECRET must be set to at least 32 characters in release mode"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
