package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Disk stores files in a directory on the local filesystem.
type Disk struct {
	dir string
}

// NewDisk creates the directory if needed and returns a disk store.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Dir returns the backing directory, for static file serving.
func (d *Disk) Dir() string { return d.dir }

func (d *Disk) Save(_ context.Context, field, originalName string, r io.Reader) (string, error) {
	key := NewKey(field, originalName)
	path := filepath.Join(d.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing file: %w", err)
	}
	return key, nil
}

func (d *Disk) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := d.safeJoin(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

func (d *Disk) Delete(_ context.Context, key string) error {
	path, err := d.safeJoin(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// safeJoin resolves key relative to the base directory and rejects
// directory traversal.
func (d *Disk) safeJoin(key string) (string, error) {
	absBase, err := filepath.Abs(d.dir)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(d.dir, key))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return absPath, nil
}
