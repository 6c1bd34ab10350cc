package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/uploads/listings/")
	require.NoError(t, err)
	ctx := context.Background()

	path, err := store.Save(ctx, "plik.jpg", bytes.NewBufferString("zawartość"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/listings/plik.jpg", path)

	r, err := store.Open(ctx, "plik.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	r.Close()
	assert.Equal(t, "zawartość", string(data))

	require.NoError(t, store.Delete(ctx, "plik.jpg"))
	_, err = store.Open(ctx, "plik.jpg")
	assert.Error(t, err)

	// Deleting a missing file is not an error.
	assert.NoError(t, store.Delete(ctx, "plik.jpg"))
}

func TestLocalStorage_StripsPathComponents(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/uploads/listings")
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "../../../etc/passwd", bytes.NewBufferString("x"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/listings/passwd", path)
}

func TestThumbFilename(t *testing.T) {
	assert.Equal(t, "abc_thumb.jpg", ThumbFilename("abc.png"))
	assert.Equal(t, "abc_thumb.jpg", ThumbFilename("abc.jpg"))
	assert.Equal(t, "noext_thumb.jpg", ThumbFilename("noext"))
}
