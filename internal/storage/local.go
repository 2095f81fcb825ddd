package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// localStorage stores blobs as files in a single directory
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance, creating basePath if needed
func NewLocalStorage(basePath string) (*localStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStorage{
		basePath: basePath,
	}, nil
}

func (s *localStorage) path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, key), nil
}

// Save writes the reader into a new file. A partially written file is removed on failure.
func (s *localStorage) Save(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return written, nil
}

// Open opens a blob for reading. The returned value is an *os.File, so it can be used with http.ServeContent.
func (s *localStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, nil
}

// Delete removes a blob
func (s *localStorage) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrObjectNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
