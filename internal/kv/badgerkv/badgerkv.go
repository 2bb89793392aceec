// Package badgerkv stores kv values in an embedded Badger database.
package badgerkv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"
)

const keyPrefix = "kv:"

type Options struct {
	// Path is the database directory. Empty means in-memory.
	Path     string
	InMemory bool
}

// DefaultPath returns the XDG data path for the database.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "taskhub", "badger")
}

type Store struct {
	db *badger.DB
}

func Open(opts Options) (*Store, error) {
	var bo badger.Options
	if opts.InMemory || opts.Path == "" {
		bo = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0o755); err != nil {
			return nil, err
		}
		bo = badger.DefaultOptions(opts.Path)
	}
	bo = bo.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) GetItem(_ context.Context, key string) (string, bool, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(val), true, nil
}

func (s *Store) SetItem(_ context.Context, key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), []byte(value))
	})
}

func (s *Store) RemoveItem(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
}
