// Package config holds the server settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// ServerConfig holds configuration for the schedsim server.
type ServerConfig struct {
	Addr         string // Listen address (default ":8080")
	LogLevel     string // Log level: debug, info, warn, error
	LogFormat    string // Log format: text, json
	DBPath       string // SQLite run history; empty disables persistence, ":memory:" for testing
	TemplatePath string // index page template
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         ":8080",
		LogLevel:     "info",
		LogFormat:    "text",
		TemplatePath: "templates/index.html",
	}
}

// Environment variables consulted by FromEnv.
const (
	EnvAddr         = "SCHEDSIM_ADDR"
	EnvLogLevel     = "SCHEDSIM_LOG_LEVEL"
	EnvLogFormat    = "SCHEDSIM_LOG_FORMAT"
	EnvDBPath       = "SCHEDSIM_DB"
	EnvTemplatePath = "SCHEDSIM_TEMPLATE"
)

// FromEnv returns the defaults overridden by SCHEDSIM_* variables. Variables
// from envFiles (".env" when none are given) are loaded first; a missing file
// is not an error, and variables already set in the process win.
func FromEnv(envFiles ...string) (ServerConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ServerConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := DefaultServerConfig()
	override(&cfg.Addr, EnvAddr)
	override(&cfg.LogLevel, EnvLogLevel)
	override(&cfg.LogFormat, EnvLogFormat)
	override(&cfg.DBPath, EnvDBPath)
	override(&cfg.TemplatePath, EnvTemplatePath)
	return cfg, nil
}

func override(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
