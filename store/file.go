package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each document in its own file under a directory. The file
// name is the escaped key followed by the format as extension.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Save(ctx context.Context, doc Document) error {
	if err := validKey(doc.Key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	old, err := s.find(doc.Key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	path := filepath.Join(s.dir, fileName(doc.Key, doc.Format))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(doc.Data), 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store: write %s: %w", doc.Key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store: write %s: %w", doc.Key, err)
	}
	// A format change leaves the previous file behind under another extension.
	if old != "" && old != path {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: remove stale %s: %w", doc.Key, err)
		}
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, key string) (*Document, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.find(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("store: stat %s: %w", key, err)
	}
	return &Document{
		Key:       key,
		Format:    strings.TrimPrefix(filepath.Ext(path), "."),
		Data:      string(data),
		UpdatedAt: info.ModTime(),
	}, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	path, err := s.find(key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) find(key string) (string, error) {
	escaped := url.PathEscape(key)
	matches, err := filepath.Glob(filepath.Join(s.dir, globEscape(escaped)+".*"))
	if err != nil {
		return "", fmt.Errorf("store: lookup %s: %w", key, err)
	}
	for _, m := range matches {
		base := filepath.Base(m)
		if strings.HasSuffix(base, ".tmp") || strings.TrimSuffix(base, filepath.Ext(base)) != escaped {
			continue
		}
		return m, nil
	}
	return "", ErrNotFound
}

func fileName(key, format string) string {
	if format == "" {
		format = "txt"
	}
	return url.PathEscape(key) + "." + format
}

var globEscaper = strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)

func globEscape(s string) string {
	return globEscaper.Replace(s)
}
