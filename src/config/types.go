package config

import (
	"strings"

	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta Environment = "beta"
	Dev  Environment = "dev"
)

type BizConfig struct {
	Env      Environment `mapstructure:"BIZ_ENV"`
	LogLevel string      `mapstructure:"BIZ_LOG_LEVEL"`

	API     APIConfig     `mapstructure:",squash"`
	Console ConsoleConfig `mapstructure:",squash"`
	Storage StorageConfig `mapstructure:",squash"`
}

// APIConfig points at the BizNex backend. Requests are made against
// BaseUrl + "/api/v1/...".
type APIConfig struct {
	BaseUrl string `mapstructure:"BIZ_API_BASE_URL"`
}

type ConsoleConfig struct {
	Addr           string `mapstructure:"BIZ_CONSOLE_ADDR"`
	BaseUrl        string `mapstructure:"BIZ_CONSOLE_BASE_URL"`
	AllowedOrigins string `mapstructure:"BIZ_CONSOLE_ALLOWED_ORIGINS"`
}

type StorageDriver string

const (
	StorageSQLite StorageDriver = "sqlite"
	StorageMemory StorageDriver = "memory"
)

type StorageConfig struct {
	Driver StorageDriver `mapstructure:"BIZ_STORAGE_DRIVER"`
	Path   string        `mapstructure:"BIZ_STORAGE_PATH"`
}

// Level parses LogLevel, falling back to info for anything unrecognized.
func (c BizConfig) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Origins splits the comma-separated AllowedOrigins list.
func (c ConsoleConfig) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
