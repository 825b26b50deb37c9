package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the service settings read from the environment.
type Config struct {
	Addr              string
	LogLevel          string
	SessionTTL        time.Duration
	SweepInterval     time.Duration
	MaxSessions       int
	MaxKeysPerRequest int
	ShutdownTimeout   time.Duration
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:              ":8080",
		LogLevel:          "info",
		SessionTTL:        30 * time.Minute,
		SweepInterval:     time.Minute,
		MaxSessions:       10000,
		MaxKeysPerRequest: 256,
		ShutdownTimeout:   5 * time.Second,
	}
}

// Load reads the configuration from environment variables, starting from
// Default. Call it after the .env file, if any, has been loaded.
func Load() (Config, error) {
	cfg := Default()

	if v, ok := os.LookupEnv("HTTP_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}

	var err error

	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = durationEnv("SESSION_SWEEP_INTERVAL", cfg.SweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	if cfg.MaxSessions, err = intEnv("MAX_SESSIONS", cfg.MaxSessions); err != nil {
		return Config{}, err
	}
	if cfg.MaxKeysPerRequest, err = intEnv("MAX_KEYS_PER_REQUEST", cfg.MaxKeysPerRequest); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return d, nil
}

func intEnv(name string, def int) (int, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return n, nil
}
