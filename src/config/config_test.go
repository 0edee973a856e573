package config

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, Dev, cfg.Env)
		assert.Equal(t, "http://localhost:8081", cfg.API.BaseUrl)
		assert.Equal(t, ":3000", cfg.Console.Addr)
		assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
		assert.Equal(t, "./bizconsole.db", cfg.Storage.Path)
		assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	})
	t.Run("env overrides", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("BIZ_API_BASE_URL", "https://biz.example.com/")
		os.Setenv("BIZ_STORAGE_DRIVER", "memory")
		os.Setenv("BIZ_LOG_LEVEL", "DEBUG")
		os.Setenv("BIZ_CONSOLE_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "https://biz.example.com", cfg.API.BaseUrl)
		assert.Equal(t, StorageMemory, cfg.Storage.Driver)
		assert.Equal(t, zerolog.DebugLevel, cfg.Level())
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Console.Origins())
	})
	t.Run("rejects relative api url", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("BIZ_API_BASE_URL", "localhost")

		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("rejects unknown storage driver", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("BIZ_STORAGE_DRIVER", "redis")

		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("rejects unknown env", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("BIZ_ENV", "staging")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLevelFallback(t *testing.T) {
	cfg := BizConfig{LogLevel: "loud"}
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}
