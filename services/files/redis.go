package files

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/KB1707/CramJam/core"
)

const redisKeyPrefix = "cramjam:files:"

// RedisStorage keeps every file under its own key, without expiry.
type RedisStorage struct {
	client *redis.Client
}

var _ core.FileStorage = (*RedisStorage)(nil)

func NewRedisStorage(ctx context.Context, addr, password string, db int) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "connecting to redis")
	}
	return &RedisStorage{client: client}, nil
}

func (s *RedisStorage) Read(ctx context.Context, name string) ([]byte, error) {
	name, err := core.CleanFileName(name)
	if err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if err == redis.Nil {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return data, nil
}

func (s *RedisStorage) Write(ctx context.Context, name string, data []byte) error {
	name, err := core.CleanFileName(name)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.client.Set(ctx, redisKeyPrefix+name, data, 0).Err(), "writing %s", name)
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
