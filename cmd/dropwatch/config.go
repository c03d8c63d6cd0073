package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/dropwatch/internal/model"
)

const defaultHTTPAddr = "127.0.0.1:3000"

// appConfig is internal runtime configuration for the monitor binary.
type appConfig struct {
	Interface     string        `mapstructure:"interface"`
	Interval      time.Duration `mapstructure:"-"` // resolved by intervalFromConfig
	LogPath       string        `mapstructure:"logfile"`
	CritThreshold uint64        `mapstructure:"crit-threshold"`
	HTTPEnabled   bool          `mapstructure:"http-enabled"`
	HTTPAddr      string        `mapstructure:"http-addr"`
	ConfigPath    string        `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("DROPWATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("interface", model.DefaultInterface)
	v.SetDefault("interval", model.DefaultInterval)
	v.SetDefault("logfile", model.DefaultLogPath)
	v.SetDefault("crit-threshold", model.DefaultCritThreshold)
	v.SetDefault("http-enabled", false)
	v.SetDefault("http-addr", defaultHTTPAddr)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "dropwatch", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.Interval, err = intervalFromConfig(v.Get("interval"))
	if err != nil {
		return cfg, fmt.Errorf("invalid interval: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	return cfg, nil
}

// intervalFromConfig resolves the interval key. A bare number means seconds,
// matching the positional argument; a string may also carry a unit suffix
// ("500ms", "2m").
func intervalFromConfig(raw any) (time.Duration, error) {
	switch val := raw.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case uint64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second, nil
		}
		return time.ParseDuration(val)
	default:
		return 0, fmt.Errorf("unsupported interval value %v", raw)
	}
}

// applyArgs overlays the optional positional arguments
// [interface [interval_seconds [logfile]]] onto the config.
func applyArgs(cfg appConfig, args []string) (appConfig, error) {
	if len(args) > 3 {
		return cfg, fmt.Errorf("too many arguments: %v", args[3:])
	}
	if len(args) >= 1 {
		cfg.Interface = args[0]
	}
	if len(args) >= 2 {
		secs, err := strconv.Atoi(args[1])
		if err != nil || secs < 1 {
			return cfg, fmt.Errorf("invalid interval %q: want a positive number of seconds", args[1])
		}
		cfg.Interval = time.Duration(secs) * time.Second
	}
	if len(args) >= 3 {
		cfg.LogPath = args[2]
	}
	return cfg, nil
}

func validateConfig(cfg appConfig) error {
	if cfg.Interface == "" {
		return errors.New("interface must not be empty")
	}
	if cfg.Interval < time.Second {
		return fmt.Errorf("interval %s is below the 1s minimum", cfg.Interval)
	}
	if cfg.CritThreshold < 1 {
		return errors.New("crit-threshold must be at least 1")
	}
	return nil
}
