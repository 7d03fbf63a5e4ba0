// Package filestore abstracts stored-file access behind a narrow port so
// handlers depend on a capability rather than the filesystem directly.
package filestore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Store is the storage port for uploaded files.
type Store interface {
	// Save writes the file under a generated key and returns the key.
	Save(ctx context.Context, field, originalName string, r io.Reader) (string, error)
	// Open returns the file contents for a key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the file for a key.
	Delete(ctx context.Context, key string) error
}

// NewKey generates a collision-resistant storage key from the upload
// field name, the current time and the client-supplied file name,
// e.g. "image_1735689600123456789_pen.png".
func NewKey(field, originalName string) string {
	return fmt.Sprintf("%s_%d_%s", field, time.Now().UnixNano(), sanitize(originalName))
}

// sanitize strips any path components and characters that make keys
// unsafe to embed in URLs or filesystem paths.
func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
