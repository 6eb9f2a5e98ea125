package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the chirp terminal client. Env tags are
// read with the CHIRP_CLIENT_ prefix.
type Config struct {
	ServerURL      string        `env:"SERVER_URL"`
	SessionDBPath  string        `env:"SESSION_DB"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000"
	c.SessionDBPath = "chirp.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "error"
}

// LoadConfig applies defaults, then the JSON file, the environment and the
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("config: server url is empty")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("config: request timeout must be positive")
	}
	return cfg, nil
}
