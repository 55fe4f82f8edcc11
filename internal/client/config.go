package client

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the command-line client's configuration file.
//
//	server: http://localhost:3000
//	randomDogURL: https://dog.ceo/api/breeds/image/random
//	interval: 5s
type Config struct {
	Server       string        `yaml:"server"`
	RandomDogURL string        `yaml:"randomDogURL"`
	Interval     time.Duration `yaml:"interval"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Server:       "http://localhost:3000",
		RandomDogURL: DefaultRandomDogURL,
		Interval:     DefaultPollInterval,
	}
}

// LoadConfig overlays the YAML file at path on DefaultConfig. A missing
// file is not an error when optional is true.
func LoadConfig(path string, optional bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Interval <= 0 {
		return cfg, fmt.Errorf("config %s: interval must be positive", path)
	}
	return cfg, nil
}
