package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

// cliConfig is the on-disk configuration. Layers, highest precedence last:
// built-in defaults, the YAML file, environment variables prefixed
// HRPAUTH_ (double underscore maps to a dot, e.g.
// HRPAUTH_BACKEND__BASE_URL -> backend.base_url).
type cliConfig struct {
	Backend struct {
		BaseURL             string `koanf:"base_url"`
		LoginTimeoutSeconds int    `koanf:"login_timeout_seconds"`
	} `koanf:"backend"`
	Session struct {
		Store string `koanf:"store"` // "file" (default) or "redis"
		Path  string `koanf:"path"`  // file store location
		Redis struct {
			Addr   string `koanf:"addr"`
			Prefix string `koanf:"prefix"`
		} `koanf:"redis"`
	} `koanf:"session"`
	Verification struct {
		ResendCooldownSeconds int `koanf:"resend_cooldown_seconds"`
	} `koanf:"verification"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func defaultCLIConfig() cliConfig {
	var cfg cliConfig
	cfg.Backend.LoginTimeoutSeconds = 15
	cfg.Session.Store = "file"
	cfg.Verification.ResendCooldownSeconds = 60
	cfg.Log.Level = "info"
	return cfg
}

// configPath resolves the config file: the --config flag, then
// $HRPAUTH_CONFIG, then <user config dir>/hrpauth/config.yaml.
func configPath() string {
	if configFile != "" {
		return configFile
	}
	if p := os.Getenv("HRPAUTH_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hrpauth", "config.yaml")
}

// sessionPath resolves the file-backed session store location.
func sessionPath(cfg cliConfig) (string, error) {
	if cfg.Session.Path != "" {
		return cfg.Session.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
	}
	return filepath.Join(dir, "hrpauth", "session.json"), nil
}

func loadCLIConfig() (cliConfig, error) {
	cfg := defaultCLIConfig()
	k := koanf.New(".")

	if path := configPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("HRPAUTH_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "HRPAUTH_")
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		return cfg, fmt.Errorf("load env config: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}
	return cfg, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
