package backend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rcliao/agent-graph/internal/model"
)

// FileBackend stores one JSON file per record under
// <root>/<collection>/<key>.json. Writes go to a temp file in the same
// directory and are renamed into place, so a record is always either
// the old version or the new one. Queries are linear directory scans.
type FileBackend struct {
	root string
}

// NewFileBackend creates the collection directories under root.
func NewFileBackend(root string) (*FileBackend, error) {
	for _, col := range Collections {
		dir := filepath.Join(root, filepath.FromSlash(col))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", col, err)
		}
	}
	return &FileBackend{root: root}, nil
}

// Keys are caller-supplied and may contain path separators, so they are
// query-escaped on the way to disk.
func (b *FileBackend) path(collection, key string) string {
	return filepath.Join(b.root, filepath.FromSlash(collection), url.QueryEscape(key)+".json")
}

func (b *FileBackend) Get(ctx context.Context, collection, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(collection, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", collection, key, err)
	}
	return data, nil
}

func (b *FileBackend) Put(ctx context.Context, collection, key string, data []byte) error {
	target := b.path(collection, key)
	tmp, err := os.CreateTemp(filepath.Dir(target), ".put-*")
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, key, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s/%s: %w", collection, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s/%s: %w", collection, key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s/%s: %w", collection, key, err)
	}
	return nil
}

func (b *FileBackend) Delete(ctx context.Context, collection, key string) error {
	err := os.Remove(b.path(collection, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (b *FileBackend) Scan(ctx context.Context, collection string) ([]Record, error) {
	dir := filepath.Join(b.root, filepath.FromSlash(collection))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}

	var records []Record
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key, err := url.QueryUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			// Removed between ReadDir and ReadFile.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		records = append(records, Record{Key: key, Data: data})
	}
	return records, nil
}

func (b *FileBackend) Close() error {
	return nil
}
