// Package config loads server and client settings from defaults, an optional
// config file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "COMMENTBOARD"

// Store drivers
const (
	DriverJSON   = "json"
	DriverBadger = "badger"
)

// Config is the resolved application configuration.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Log    LogConfig
	Client ClientConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type StoreConfig struct {
	Driver    string
	Path      string
	BadgerDir string
	BackupDir string
}

type LogConfig struct {
	Level string
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("store.driver", DriverJSON)
	v.SetDefault("store.path", "data/comments.json")
	v.SetDefault("store.badger_dir", "data/badger")
	v.SetDefault("store.backup_dir", "data/backups")
	v.SetDefault("log.level", "info")
	v.SetDefault("client.base_url", "http://localhost:3001")
	v.SetDefault("client.timeout", 10*time.Second)
}

// New returns a viper instance wired for defaults and environment lookups.
// API_PORT is honoured for the server port alongside COMMENTBOARD_SERVER_PORT.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", envPrefix+"_SERVER_PORT", "API_PORT")
	return v
}

// LoadDotEnv loads key=value pairs from the given files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ReadFile reads an explicit config file into v. An empty path looks for
// commentboard.{toml,yaml,json} in the working directory and is not an
// error when none exists.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("commentboard")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load resolves a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Store: StoreConfig{
			Driver:    strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			Path:      v.GetString("store.path"),
			BadgerDir: v.GetString("store.badger_dir"),
			BackupDir: v.GetString("store.backup_dir"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Client: ClientConfig{
			BaseURL: strings.TrimRight(v.GetString("client.base_url"), "/"),
			Timeout: v.GetDuration("client.timeout"),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	switch cfg.Store.Driver {
	case DriverJSON, DriverBadger:
	default:
		return nil, fmt.Errorf("unknown store driver %q (want %s or %s)", cfg.Store.Driver, DriverJSON, DriverBadger)
	}
	return cfg, nil
}
