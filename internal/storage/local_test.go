package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("client went away")
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	ctx := context.Background()

	written, err := store.Save(ctx, "a.mp3", "audio/mpeg", strings.NewReader("test content"))
	require.NoError(t, err)
	assert.Equal(t, int64(12), written)

	rc, err := store.Open(ctx, "a.mp3")
	require.NoError(t, err)
	_, isSeeker := rc.(io.ReadSeeker)
	assert.True(t, isSeeker)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "test content", string(data))

	_, err = store.Save(ctx, "a.mp3", "audio/mpeg", strings.NewReader("again"))
	assert.Error(t, err)

	require.NoError(t, store.Delete(ctx, "a.mp3"))
	assert.ErrorIs(t, store.Delete(ctx, "a.mp3"), ErrObjectNotFound)

	_, err = store.Open(ctx, "a.mp3")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_SaveFailureRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "broken.bin", "application/octet-stream", failingReader{})

	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "broken.bin"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStorage_RejectsUnsafeKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../secret", "nested/file.txt", ".hidden"} {
		t.Run(key, func(t *testing.T) {
			_, err := store.Save(ctx, key, "text/plain", strings.NewReader("x"))
			assert.Error(t, err)
			_, err = store.Open(ctx, key)
			assert.Error(t, err)
			assert.Error(t, store.Delete(ctx, key))
		})
	}
}

func TestGenerateFileName(t *testing.T) {
	tests := []struct {
		name         string
		originalName string
		expectedExt  string
	}{
		{name: "keeps extension", originalName: "song.mp3", expectedExt: ".mp3"},
		{name: "lowercases extension", originalName: "Photo.JPG", expectedExt: ".jpg"},
		{name: "no extension", originalName: "README", expectedExt: ".bin"},
		{name: "trailing dot", originalName: "weird.", expectedExt: ".bin"},
		{name: "path in name", originalName: "../../etc/passwd.txt", expectedExt: ".txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := GenerateFileName(tt.originalName)

			assert.True(t, strings.HasSuffix(name, tt.expectedExt))
			assert.Len(t, strings.TrimSuffix(name, tt.expectedExt), 36)
			assert.NoError(t, validateKey(name))
		})
	}

	assert.NotEqual(t, GenerateFileName("a.mp3"), GenerateFileName("a.mp3"))
}
