// Package config loads application configuration from the environment,
// with an optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultPort is the HTTP API port used when QCOMPOSE_PORT is unset.
const DefaultPort = 8791

// Config holds the runtime settings shared by the serve and tui commands.
type Config struct {
	Port      int    // HTTP API port
	LogLevel  string // debug, info, warn, error
	LogPretty bool   // console writer instead of JSON lines
}

// Load reads configuration from environment variables, after loading a
// .env file when one exists. Missing variables fall back to defaults;
// malformed ones are errors rather than silent fallbacks.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      DefaultPort,
		LogLevel:  "info",
		LogPretty: true,
	}

	if v := os.Getenv("QCOMPOSE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("QCOMPOSE_PORT=%q is not a valid port", v)
		}
		cfg.Port = port
	}
	if v := os.Getenv("QCOMPOSE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QCOMPOSE_LOG_PRETTY"); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("QCOMPOSE_LOG_PRETTY=%q is not a boolean", v)
		}
		cfg.LogPretty = pretty
	}

	return cfg, nil
}
