package files

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/KB1707/CramJam/core"
)

// DiskStorage keeps shared files flat in one directory.
type DiskStorage struct {
	dir string
}

var _ core.FileStorage = (*DiskStorage)(nil)

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(core.Getwd(), dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating files directory")
	}
	return &DiskStorage{dir: dir}, nil
}

func (s *DiskStorage) path(name string) (string, error) {
	name, err := core.CleanFileName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

func (s *DiskStorage) Read(_ context.Context, name string) ([]byte, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return data, nil
}

// Write replaces the file atomically: readers see the old or the new bytes, never a mix.
func (s *DiskStorage) Write(_ context.Context, name string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", name)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), p), "writing %s", name)
}
