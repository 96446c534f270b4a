package files

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KB1707/CramJam/core"
)

func TestStorages(t *testing.T) {
	disk, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	storages := map[string]core.FileStorage{
		"disk":   disk,
		"memory": NewMemoryStorage(),
	}
	for name, store := range storages {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Read(ctx, "notes.pdf")
			assert.True(t, core.IsNotFound(err))
			assert.Equal(t, "File notes.pdf not found.", err.Error())

			require.NoError(t, store.Write(ctx, "notes.pdf", []byte("v1")))
			data, err := store.Read(ctx, "notes.pdf")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), data)

			require.NoError(t, store.Write(ctx, "notes.pdf", []byte("v2")))
			data, err = store.Read(ctx, "../notes.pdf")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), data)

			assert.True(t, core.IsInvalidFormat(store.Write(ctx, "..", []byte("x"))))
		})
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	store, closer, err := New(ctx, &core.Config{Files: core.FilesConfig{Backend: core.FilesMemory}})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, store)
	assert.NoError(t, closer())

	store, _, err = New(ctx, &core.Config{Files: core.FilesConfig{Backend: core.FilesDisk, Dir: t.TempDir()}})
	require.NoError(t, err)
	assert.IsType(t, &DiskStorage{}, store)

	_, _, err = New(ctx, &core.Config{Files: core.FilesConfig{Backend: "ftp"}})
	assert.EqualError(t, err, `unknown file backend "ftp"`)
}
