package storage

import (
	"context"
	"errors"

	"github.com/biznex/bizconsole/src/config"
	"github.com/biznex/bizconsole/src/oops"
)

// Keys of the persisted session. Values are plain strings.
const (
	KeyAuthToken    = "authToken"
	KeyUserData     = "userData"
	KeyRefreshToken = "refreshToken"
)

var ErrNotFound = errors.New("key not found")

// Storage is a small persistent string key-value store.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open creates the storage backend selected in config.
func Open(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return NewMemoryStorage(), nil
	case config.StorageSQLite, "":
		return OpenSQLite(cfg.Path)
	default:
		return nil, oops.New(nil, "unknown storage driver '%s'", cfg.Driver)
	}
}
