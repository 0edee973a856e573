package storage

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStorage keeps values for the life of the process. It is used by
// tests and by BIZ_STORAGE_DRIVER=memory.
type MemoryStorage struct {
	c *cache.Cache
}

var _ Storage = &MemoryStorage{}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		c: cache.New(cache.NoExpiration, 0),
	}
}

func (s *MemoryStorage) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	return v.(string), nil
}

func (s *MemoryStorage) Set(ctx context.Context, key, value string) error {
	s.c.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *MemoryStorage) Remove(ctx context.Context, key string) error {
	s.c.Delete(key)
	return nil
}

func (s *MemoryStorage) Close() error {
	s.c.Flush()
	return nil
}
