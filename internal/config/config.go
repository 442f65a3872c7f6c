// Package config loads babynames settings.
//
// Values are layered: defaults, then an optional YAML file, then a .env file
// in the working directory, then BABYNAMES_* environment variables. Command
// line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/maloquacious/babynames/internal/store"
)

const (
	EnvDBPath   = "BABYNAMES_DB"
	EnvDataDir  = "BABYNAMES_DATA"
	EnvLogLevel = "BABYNAMES_LOG_LEVEL"
	EnvFormat   = "BABYNAMES_FORMAT"
)

// Config holds the runtime settings.
type Config struct {
	DBPath   string `yaml:"db"`
	DataDir  string `yaml:"data"`
	LogLevel string `yaml:"log_level"`
	Format   string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:   store.GetDBPath("."),
		DataDir:  store.DefaultDataDir,
		LogLevel: "info",
		Format:   "text",
	}
}

// Load builds a Config. An empty path skips the YAML file; a named file
// that does not exist is an error. A missing .env file is ignored.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
}
