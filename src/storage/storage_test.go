package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/biznex/bizconsole/src/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	backends := map[string]func(t *testing.T) Storage{
		"memory": func(t *testing.T) Storage {
			return NewMemoryStorage()
		},
		"sqlite": func(t *testing.T) Storage {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
			require.Nil(t, err)
			return s
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			_, err := s.Get(ctx, KeyAuthToken)
			assert.ErrorIs(t, err, ErrNotFound)

			require.Nil(t, s.Set(ctx, KeyAuthToken, "abc"))
			v, err := s.Get(ctx, KeyAuthToken)
			require.Nil(t, err)
			assert.Equal(t, "abc", v)

			require.Nil(t, s.Set(ctx, KeyAuthToken, "def"))
			v, err = s.Get(ctx, KeyAuthToken)
			require.Nil(t, err)
			assert.Equal(t, "def", v)

			require.Nil(t, s.Remove(ctx, KeyAuthToken))
			_, err = s.Get(ctx, KeyAuthToken)
			assert.ErrorIs(t, err, ErrNotFound)

			// removing a missing key is fine
			assert.Nil(t, s.Remove(ctx, KeyAuthToken))
		})
	}
}

func TestSQLitePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	s, err := OpenSQLite(path)
	require.Nil(t, err)
	require.Nil(t, s.Set(ctx, KeyUserData, `{"username":"sarthak"}`))
	require.Nil(t, s.Close())

	s, err = OpenSQLite(path)
	require.Nil(t, err)
	defer s.Close()
	v, err := s.Get(ctx, KeyUserData)
	require.Nil(t, err)
	assert.Equal(t, `{"username":"sarthak"}`, v)
}

func TestOpen(t *testing.T) {
	s, err := Open(config.StorageConfig{Driver: config.StorageMemory})
	require.Nil(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	_, err = Open(config.StorageConfig{Driver: "redis"})
	assert.ErrorContains(t, err, "unknown storage driver")
}
