package main

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"gomoku/engine"
)

const configFile = "gomoku/config.json"

type Config struct {
	Addr     string        `json:"addr"`
	LogLevel string        `json:"log_level"`
	Engine   engine.Config `json:"engine"`
}

func DefaultConfig() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Engine:   engine.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "log level %q", c.LogLevel)
	}
	return errors.Wrap(c.Engine.Validate(), "engine")
}

// LoadConfig layers the first gomoku/config.json found in the XDG config
// directories over the defaults. path is empty when no file exists.
func LoadConfig() (cfg Config, path string, err error) {
	path, err = xdg.SearchConfigFile(configFile)
	if err != nil {
		return DefaultConfig(), "", nil
	}
	cfg, err = LoadConfigFile(path)
	return cfg, path, err
}

func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// SaveConfig writes cfg to the user's XDG config directory and returns the
// file it wrote.
func SaveConfig(cfg Config) (string, error) {
	path, err := xdg.ConfigFile(configFile)
	if err != nil {
		return "", errors.Wrap(err, "resolve config path")
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode config")
	}
	if err := os.WriteFile(path, data, 0o664); err != nil {
		return "", errors.Wrapf(err, "write config %s", path)
	}
	return path, nil
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg := c.config
	cfg.Engine.Schedule = append(engine.Schedule(nil), c.config.Engine.Schedule...)
	return cfg
}

// Update replaces the stored config after validating it. An invalid config
// leaves the store untouched.
func (c *ConfigStore) Update(newConfig Config) error {
	if err := newConfig.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
	return nil
}
