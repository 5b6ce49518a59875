// Package config loads client credentials and settings from a YAML file with
// .env / environment-variable overrides.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/openkis/gokis/pkg/logger"
)

// Config is everything a client process needs: credentials, the target
// environment and ambient settings.
type Config struct {
	// AppKey and AppSecret are the broker-issued API credentials.
	AppKey    string `yaml:"app_key"`
	AppSecret string `yaml:"app_secret"`

	// Account is the 10-digit account number, formatted XXXXXXXX-XX.
	Account string `yaml:"account"`

	// Virtual selects the paper-trading environment.
	Virtual bool `yaml:"virtual"`

	// TokenStorePath, when set, persists issued access tokens in a local
	// Badger store so restarts within the token's 24h validity reuse it.
	TokenStorePath string `yaml:"token_store_path"`

	Logger logger.Config `yaml:"logger"`
}

// Load reads path (YAML), then overlays environment variables. A .env file
// in the working directory is folded into the environment first, so secrets
// can stay out of the YAML file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // optional; absence is fine

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "config: parse %s", path)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() (*Config, error) {
	return Load("")
}

func (c *Config) applyEnv() {
	if v := os.Getenv("KIS_APP_KEY"); v != "" {
		c.AppKey = v
	}
	if v := os.Getenv("KIS_APP_SECRET"); v != "" {
		c.AppSecret = v
	}
	if v := os.Getenv("KIS_ACCOUNT"); v != "" {
		c.Account = v
	}
	if v := os.Getenv("KIS_VIRTUAL"); v != "" {
		c.Virtual = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("KIS_TOKEN_STORE"); v != "" {
		c.TokenStorePath = v
	}
}

// Validate checks the fields every API call needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AppKey) == "" {
		return errors.New("config: app key is required")
	}
	if strings.TrimSpace(c.AppSecret) == "" {
		return errors.New("config: app secret is required")
	}
	if strings.TrimSpace(c.Account) == "" {
		return errors.New("config: account number is required")
	}
	return nil
}
