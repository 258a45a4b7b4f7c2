// Package config loads server settings from defaults, an optional TOML
// file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort        = "8080"
	DefaultDBPath      = "./data/fluxline.db"
	DefaultStorageKey  = "fluxline-kanban-store"
	DefaultSystemTheme = "light"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"

	// ProjectConfigFile is picked up from the working directory when no
	// other file is named.
	ProjectConfigFile = "fluxline.toml"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds the server settings.
type Config struct {
	Port        string  `toml:"port"`
	LogLevel    string  `toml:"log_level"`
	LogFormat   string  `toml:"log_format"`
	SystemTheme string  `toml:"system_theme"`
	Storage     Storage `toml:"storage"`

	// File is the config file that was read, if any.
	File string `toml:"-"`
}

// Storage selects and addresses the durable slot.
type Storage struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	RedisURL string `toml:"redis_url"`
	Key      string `toml:"key"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Port:        DefaultPort,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		SystemTheme: DefaultSystemTheme,
		Storage: Storage{
			Backend: BackendSQLite,
			Path:    DefaultDBPath,
			Key:     DefaultStorageKey,
		},
	}
}

// Load builds the configuration. fs may be nil, in which case no flags are
// parsed.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	var (
		file    string
		port    string
		dbPath  string
		backend string
	)
	if fs != nil {
		fs.StringVar(&file, "config", "", "path to a TOML config file")
		fs.StringVar(&port, "port", "", "HTTP listen port")
		fs.StringVar(&dbPath, "db", "", "SQLite database path")
		fs.StringVar(&backend, "storage", "", "storage backend (sqlite or redis)")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("parsing flags: %w", err)
		}
	}

	if file == "" {
		file = os.Getenv("FLUXLINE_CONFIG")
	}
	if file == "" {
		if _, err := os.Stat(ProjectConfigFile); err == nil {
			file = ProjectConfigFile
		}
	}
	if file != "" {
		if err := loadFile(cfg, file); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
		cfg.File = file
	}

	applyEnv(cfg, os.Getenv)

	if port != "" {
		cfg.Port = port
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if backend != "" {
		cfg.Storage.Backend = backend
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Port, "PORT")
	set(&cfg.LogLevel, "LOG_LEVEL")
	set(&cfg.LogFormat, "LOG_FORMAT")
	set(&cfg.SystemTheme, "SYSTEM_THEME")
	set(&cfg.Storage.Backend, "STORAGE_BACKEND")
	set(&cfg.Storage.Path, "DB_PATH")
	set(&cfg.Storage.RedisURL, "REDIS_URL")
	set(&cfg.Storage.Key, "STORAGE_KEY")
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, errors.New("storage key is required"))
	}
	if c.SystemTheme != "light" && c.SystemTheme != "dark" {
		errs = append(errs, fmt.Errorf("system_theme must be 'light' or 'dark', got %q", c.SystemTheme))
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			errs = append(errs, errors.New("storage path is required for the sqlite backend"))
		}
	case BackendRedis:
		if strings.TrimSpace(c.Storage.RedisURL) == "" {
			errs = append(errs, errors.New("redis_url is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}
	return errors.Join(errs...)
}
