package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"
)

// File-backed storage: one human-readable file per key inside a directory.
// Writes go through a temp file + rename so a crash never leaves half a file.

const appDir = "taskhub"

var keyRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// DefaultDir is the XDG data directory for taskhub.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, appDir)
}

type Store struct {
	dir string
}

// New returns a store rooted at dir. Empty dir means DefaultDir.
func New(dir string) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Store{dir: dir}
}

// Dir returns the directory the files live in.
func (s *Store) Dir() string { return s.dir }

func (s *Store) dataPath(key string) (string, error) {
	if !keyRe.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *Store) GetItem(_ context.Context, key string) (string, bool, error) {
	p, err := s.dataPath(key)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read file: %w", err)
	}
	return string(b), true, nil
}

func (s *Store) SetItem(_ context.Context, key, value string) error {
	p, err := s.dataPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *Store) RemoveItem(_ context.Context, key string) error {
	p, err := s.dataPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
