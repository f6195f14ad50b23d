// Package store persists serialized trees.
//
// A Store maps a destination key to a serialized document. The parser core
// does not depend on this package; the CLI uses it to keep its output.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound reports a key with no stored document.
var ErrNotFound = errors.New("store: not found")

// Document is one stored serialization.
type Document struct {
	Key       string
	Format    string
	Data      string
	UpdatedAt time.Time
}

// Store saves and loads serialized documents.
type Store interface {
	Save(ctx context.Context, doc Document) error
	Load(ctx context.Context, key string) (*Document, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a Store.
type Config struct {
	// Driver is "file" or "sqlite".
	Driver string
	Path   string
	// CacheTTL enables a read-through cache when positive.
	CacheTTL time.Duration
}

// Open returns the store described by cfg.
func Open(cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "file":
		s, err = NewFileStore(cfg.Path)
	case "sqlite", "sqlite3":
		s, err = NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if cfg.CacheTTL > 0 {
		s = NewCached(s, cfg.CacheTTL)
	}
	return s, nil
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("store: key is required")
	}
	return nil
}
