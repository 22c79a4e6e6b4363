// Package storage provides the key/value persistence the chat widget uses the
// way a browser uses local storage.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/adelvo/website/backend/internal/config"
)

// ErrUnavailable is returned when the backing storage cannot be reached.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a string key/value store scoped to one browser profile.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Closer is implemented by stores holding an open resource.
type Closer interface {
	Close() error
}

// DefaultDir returns ~/.adelvo, the directory used for local profiles.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".adelvo"), nil
}

// Open returns the store selected by cfg.Driver. An empty path places the
// data under DefaultDir.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "file", "":
		path, err := resolvePath(cfg.Path, "storage.json")
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	case "sqlite":
		path, err := resolvePath(cfg.Path, "storage.db")
		if err != nil {
			return nil, err
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func resolvePath(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
