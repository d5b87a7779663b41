package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Library  LibraryConfig  `yaml:"library"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LibraryConfig struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         6540,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 0,
		},
		Library: LibraryConfig{
			Path: "",
			Name: "Media Library",
		},
		Database: DatabaseConfig{
			Path: "data/library.db",
		},
		Auth: AuthConfig{
			JWTSecret: "",
			TokenTTL:  30 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}

	if path == "" {
		return cfg, cfg.validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.validate()
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		// Allow the secret to stay out of the config file.
		c.Auth.JWTSecret = os.Getenv("HOMEFLIX_JWT_SECRET")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (or HOMEFLIX_JWT_SECRET) is required")
	}
	return nil
}
