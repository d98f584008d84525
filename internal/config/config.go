package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all chatlog configuration.
type Config struct {
	Input    string         `yaml:"input"`  // transcript read by `chatlog parse`
	Output   string         `yaml:"output"` // JSON written by `chatlog parse`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Input:  "textsforwa.txt",
		Output: "messages.json",
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37778,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
	}
}

// DefaultPath returns ~/.chatlog/config.yaml, or the CHATLOG_CONFIG override.
func DefaultPath() (string, error) {
	if p := os.Getenv("CHATLOG_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".chatlog", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults. A missing file yields
// the defaults. CHATLOG_DB overrides the database path.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if p := os.Getenv("CHATLOG_DB"); p != "" {
		cfg.Database.Path = p
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
