package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Environment string
	ServerPort  int

	DatabasePath string
	// MaxConns bounds the store connection pool; acquisition past the bound
	// blocks until StoreTimeout elapses.
	MaxConns     int
	MaxIdleConns int
	StoreTimeout time.Duration

	// AuthSecret signs session tokens. Sourced from the environment only.
	AuthSecret string
	// TokenTTL is the session token lifetime. The default of one minute is
	// intentionally short; override AUTH_TOKEN_TTL for anything longer-lived.
	TokenTTL time.Duration
}

// Load loads configuration from environment variables or sets defaults.
// AUTH_SECRET has no default and must be present.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}

	maxConns, err := getInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	maxIdle, err := getInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}
	storeTimeout, err := getDuration("STORE_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getDuration("AUTH_TOKEN_TTL", time.Minute)
	if err != nil {
		return nil, err
	}

	return &Config{
		Environment:  getEnv("APP_ENV", "development"),
		ServerPort:   port,
		DatabasePath: getEnv("DATABASE_PATH", "./referral.db"),
		MaxConns:     maxConns,
		MaxIdleConns: maxIdle,
		StoreTimeout: storeTimeout,
		AuthSecret:   secret,
		TokenTTL:     tokenTTL,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
