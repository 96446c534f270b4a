// Package files holds the core.FileStorage backends: disk, memory, redis and a NATS JetStream object store.
package files

import (
	"context"

	"github.com/pkg/errors"

	"github.com/KB1707/CramJam/core"
)

const fileResource = "File"

func notFound(name string) error {
	return core.NewNotFoundError(fileResource, name)
}

// Closer releases the resources held by a storage backend.
type Closer func() error

func nopCloser() error { return nil }

// New opens the backend selected by conf.Files.Backend.
func New(ctx context.Context, conf *core.Config) (core.FileStorage, Closer, error) {
	switch conf.Files.Backend {
	case core.FilesDisk, "":
		store, err := NewDiskStorage(conf.Files.Dir)
		return store, nopCloser, err
	case core.FilesMemory:
		return NewMemoryStorage(), nopCloser, nil
	case core.FilesRedis:
		store, err := NewRedisStorage(ctx, conf.Files.RedisAddr, conf.Files.RedisPassword, conf.Files.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case core.FilesNats:
		store, err := NewNatsStorage(ctx, conf.Files.NatsURL, conf.Files.NatsBucket)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown file backend %q", conf.Files.Backend)
	}
}
