package files

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/KB1707/CramJam/core"
)

// MemoryStorage keeps files in process memory. Used by tests and single-process dev runs.
type MemoryStorage struct {
	c *cache.Cache
}

var _ core.FileStorage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{c: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStorage) Read(_ context.Context, name string) ([]byte, error) {
	name, err := core.CleanFileName(name)
	if err != nil {
		return nil, err
	}
	v, ok := s.c.Get(name)
	if !ok {
		return nil, notFound(name)
	}
	data := v.([]byte)
	return append([]byte(nil), data...), nil
}

func (s *MemoryStorage) Write(_ context.Context, name string, data []byte) error {
	name, err := core.CleanFileName(name)
	if err != nil {
		return err
	}
	s.c.Set(name, append([]byte(nil), data...), cache.NoExpiration)
	return nil
}
