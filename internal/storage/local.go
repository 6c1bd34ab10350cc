package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage stores files on the local filesystem. The default driver for
// development and single-node deployments.
type LocalStorage struct {
	dir        string
	publicPath string
}

func NewLocalStorage(dir, publicPath string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, publicPath: strings.TrimSuffix(publicPath, "/")}, nil
}

func (s *LocalStorage) Save(_ context.Context, filename string, r io.Reader, _ string) (string, error) {
	dst, err := os.Create(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filename, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return s.publicPath + "/" + filepath.Base(filename), nil
}

func (s *LocalStorage) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(_ context.Context, filename string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file %s: %w", filename, err)
	}
	return nil
}
