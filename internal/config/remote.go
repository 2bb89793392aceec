package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const remoteFileName = "remote.json"

// Remote is the saved API endpoint for the client commands.
type Remote struct {
	BaseURL string    `json:"base_url"`
	Source  string    `json:"source"`   // "env" | "file"
	SavedAt time.Time `json:"saved_at"` // when we wrote the file
}

func remoteDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".taskhub"), nil
}

// RemotePath is the file SetRemote writes.
func RemotePath() (string, error) {
	dir, err := remoteDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, remoteFileName), nil
}

// GetRemote returns the configured endpoint, or nil when none is set.
// TASKHUB_API_URL wins over the file.
func GetRemote() (*Remote, error) {
	if env := strings.TrimSpace(os.Getenv("TASKHUB_API_URL")); env != "" {
		return &Remote{BaseURL: strings.TrimRight(env, "/"), Source: "env"}, nil
	}

	p, err := RemotePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read remote: %w", err)
	}
	var r Remote
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse remote: %w", err)
	}
	return &r, nil
}

func SetRemote(baseURL string) error {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return fmt.Errorf("empty url")
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url %q", baseURL)
	}
	dir, err := remoteDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(Remote{BaseURL: baseURL, Source: "file", SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	p, _ := RemotePath()
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func ClearRemote() error {
	p, err := RemotePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// ResolveBaseURL picks the client base URL: flag, then saved remote, then config.
func (c *Config) ResolveBaseURL(flag string) string {
	if flag != "" {
		return strings.TrimRight(flag, "/")
	}
	if r, err := GetRemote(); err == nil && r != nil {
		return r.BaseURL
	}
	return c.Client.BaseURL
}
