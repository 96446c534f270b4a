package files

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pkg/errors"

	"github.com/KB1707/CramJam/core"
)

// NatsStorage keeps files in a JetStream object store bucket.
type NatsStorage struct {
	conn  *nats.Conn
	store jetstream.ObjectStore
}

var _ core.FileStorage = (*NatsStorage)(nil)

// NewNatsStorage connects to url and opens bucket, creating it when missing.
func NewNatsStorage(ctx context.Context, url, bucket string) (*NatsStorage, error) {
	conn, err := nats.Connect(url, nats.Name("cram-jam files"))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to nats")
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "creating jetstream context")
	}

	store, err := js.ObjectStore(ctx, bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		store, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
			Bucket:      bucket,
			Description: "Cram-Jam shared files",
		})
	}
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "opening object store %s", bucket)
	}
	return &NatsStorage{conn: conn, store: store}, nil
}

func (s *NatsStorage) Read(ctx context.Context, name string) ([]byte, error) {
	name, err := core.CleanFileName(name)
	if err != nil {
		return nil, err
	}
	data, err := s.store.GetBytes(ctx, name)
	if errors.Is(err, jetstream.ErrObjectNotFound) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return data, nil
}

func (s *NatsStorage) Write(ctx context.Context, name string, data []byte) error {
	name, err := core.CleanFileName(name)
	if err != nil {
		return err
	}
	_, err = s.store.PutBytes(ctx, name, data)
	return errors.Wrapf(err, "writing %s", name)
}

func (s *NatsStorage) Close() error {
	return s.conn.Drain()
}
