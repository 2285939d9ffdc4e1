// Package config loads sprintboard settings from defaults, config.yaml,
// SPRINTBOARD_* environment variables and command-line flags, in that
// order of precedence (flags win).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName is the configuration directory name.
	AppName = "sprintboard"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. SPRINTBOARD_API_URL.
	EnvPrefix = "SPRINTBOARD"
)

// Config is the merged configuration.
type Config struct {
	// Dir holds config.yaml and session.json.
	Dir string `mapstructure:"-"`

	APIURL   string        `mapstructure:"api_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	LogLevel string        `mapstructure:"log_level"`
	LogFile  string        `mapstructure:"log_file"`
	// Debug makes store/server drift fatal instead of logged.
	Debug bool `mapstructure:"debug"`

	Server ServerConfig `mapstructure:"server"`
}

// ServerConfig configures `sprintboard serve`.
type ServerConfig struct {
	Addr     string        `mapstructure:"addr"`
	DB       string        `mapstructure:"db"`
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("api_url", "http://localhost:5000/api")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("server.addr", "127.0.0.1:5000")
	v.SetDefault("server.db", filepath.Join(dir, "server.db"))
	v.SetDefault("server.secret", "")
	v.SetDefault("server.token_ttl", 24*time.Hour)
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"api-url":  "api_url",
	"debug":    "debug",
	"log-file": "log_file",
}

// Load merges every layer. dir may be empty to use DefaultDir. flags may be
// nil; only flags the user actually set override lower layers.
func Load(dir string, flags *pflag.FlagSet) (*Config, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	v := viper.New()
	setDefaults(v, dir)

	v.SetConfigFile(filepath.Join(dir, ConfigFile))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !notFound(err) {
		return nil, fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Dir = dir
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, nil
}

func notFound(err error) bool {
	var vErr viper.ConfigFileNotFoundError
	return errors.As(err, &vErr) || errors.Is(err, os.ErrNotExist)
}

// DefaultDir returns $XDG_CONFIG_HOME/sprintboard or ~/.config/sprintboard.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}
