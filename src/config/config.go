// Package config loads bizconsole settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration. It holds defaults until Init is called.
var Config = defaults()

func defaults() BizConfig {
	return BizConfig{
		Env:      Dev,
		LogLevel: "info",
		API: APIConfig{
			BaseUrl: "http://localhost:8081",
		},
		Console: ConsoleConfig{
			Addr:           ":3000",
			BaseUrl:        "http://localhost:3000",
			AllowedOrigins: "http://localhost:3000",
		},
		Storage: StorageConfig{
			Driver: StorageSQLite,
			Path:   "./bizconsole.db",
		},
	}
}

// Load reads .env (if present), then the environment, and validates the result.
// Env vars override .env.
func Load() (*BizConfig, error) {
	def := defaults()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // a missing .env is fine

	v.AutomaticEnv()

	v.SetDefault("BIZ_ENV", string(def.Env))
	v.SetDefault("BIZ_LOG_LEVEL", def.LogLevel)
	v.SetDefault("BIZ_API_BASE_URL", def.API.BaseUrl)
	v.SetDefault("BIZ_CONSOLE_ADDR", def.Console.Addr)
	v.SetDefault("BIZ_CONSOLE_BASE_URL", def.Console.BaseUrl)
	v.SetDefault("BIZ_CONSOLE_ALLOWED_ORIGINS", def.Console.AllowedOrigins)
	v.SetDefault("BIZ_STORAGE_DRIVER", string(def.Storage.Driver))
	v.SetDefault("BIZ_STORAGE_PATH", def.Storage.Path)

	var cfg BizConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.API.BaseUrl = strings.TrimSuffix(cfg.API.BaseUrl, "/")
	cfg.Console.BaseUrl = strings.TrimSuffix(cfg.Console.BaseUrl, "/")

	switch cfg.Env {
	case Live, Beta, Dev:
	default:
		return nil, fmt.Errorf("config: unknown BIZ_ENV %q", cfg.Env)
	}

	if u, err := url.Parse(cfg.API.BaseUrl); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("config: BIZ_API_BASE_URL must be an absolute URL")
	}

	if cfg.Console.Addr == "" {
		return nil, errors.New("config: BIZ_CONSOLE_ADDR must be set")
	}

	switch cfg.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if cfg.Storage.Path == "" {
			return nil, errors.New("config: BIZ_STORAGE_PATH must be set for the sqlite driver")
		}
	default:
		return nil, fmt.Errorf("config: unknown BIZ_STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}

// Init loads the configuration into Config.
func Init() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	Config = *cfg
	return nil
}
