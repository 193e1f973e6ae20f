package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) > 0 {
		n := copy(p, r.data)
		r.data = r.data[n:]
		return n, nil
	}
	return 0, r.err
}

func TestDiskStoreSaveRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "a.png", bytes.NewReader([]byte("bytes"))))

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	require.Equal(t, []byte("bytes"), data)

	// names never escape the upload dir
	require.NoError(t, s.Save(ctx, "../escape.png", bytes.NewReader([]byte("x"))))
	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "a.png"))
	_, err = os.Stat(filepath.Join(dir, "a.png"))
	require.True(t, os.IsNotExist(err))

	// removing a missing object is fine
	require.NoError(t, s.Remove(ctx, "a.png"))
}

func TestDiskStoreNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir)
	require.NoError(t, err)

	boom := errors.New("copy failed")
	err = s.Save(context.Background(), "partial.png", &failingReader{data: []byte("some"), err: boom})
	require.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDiskStoreNoOverwrite(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "a.png", bytes.NewReader([]byte("one"))))
	require.Error(t, s.Save(ctx, "a.png", bytes.NewReader([]byte("two"))))

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	require.Equal(t, []byte("one"), data)
}
