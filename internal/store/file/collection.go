// Package file persists the store document as a single JSON file,
// replaced atomically through a temp file + rename.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
)

// Collection is a file-backed durable collection.
type Collection struct {
	path string
}

// New prepares a collection at path, creating the parent directory.
func New(path string) (*Collection, error) {
	if path == "" {
		return nil, fmt.Errorf("store file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create store directory: %w", domain.ErrStoreIO, err)
	}
	return &Collection{path: path}, nil
}

// Path returns the backing file path.
func (c *Collection) Path() string { return c.path }

// Load reads the document. A missing file yields an empty document;
// unparseable content yields domain.ErrStoreCorrupt.
func (c *Collection) Load(_ context.Context) (*domain.Document, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewDocument(), nil
		}
		return nil, fmt.Errorf("%w: failed to read store file: %w", domain.ErrStoreIO, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: store file is empty", domain.ErrStoreCorrupt)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreCorrupt, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Replace writes doc to a temp file in the same directory and renames it
// over the store file. On failure the temp file is removed.
func (c *Collection) Replace(_ context.Context, doc *domain.Document) (err error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store document: %w", err)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %w", domain.ErrStoreIO, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("%w: failed to write temp file: %w", domain.ErrStoreIO, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync temp file: %w", domain.ErrStoreIO, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temp file: %w", domain.ErrStoreIO, err)
	}
	if err = os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("%w: failed to promote temp file: %w", domain.ErrStoreIO, err)
	}

	syncDir(dir)
	return nil
}

// Close is a no-op; the file is only open during Load/Replace.
func (c *Collection) Close() error { return nil }

// syncDir flushes the rename to disk where the platform allows it.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
