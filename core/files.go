package core

import (
	"context"
	"path"
	"strings"
)

// FileStorage keeps the bytes of shared files, addressed by name only.
type FileStorage interface {
	// Read returns a *NotFoundError when no file is stored under name.
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// CleanFileName reduces name to a bare file name, refusing names that cannot address a file.
func CleanFileName(name string) (string, error) {
	name = CleanString(strings.ReplaceAll(name, "\\", "/"))
	base := path.Base(name)
	if name == "" || base == "." || base == ".." || base == "/" {
		return "", NewInvalidFormatError("file name", name)
	}
	return base, nil
}
