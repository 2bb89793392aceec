// Package config holds taskhub's runtime settings: built-in defaults,
// overridden by TASKHUB_* environment variables, overridden by CLI flags.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/taskhub/internal/kv/jsonfile"
)

// Storage backends for the local task list.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendS3     = "s3"
)

type Config struct {
	Server  ServerConfig
	Client  ClientConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	// Addr is the listen address.
	// Default: :5052
	Addr string

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 5s
	ShutdownTimeout time.Duration

	// DBDriver selects the record store: empty for memory, or sqlite, postgres, mysql.
	DBDriver string
	DBDSN    string
}

type ClientConfig struct {
	// BaseURL is the API the client talks to.
	// Default: http://localhost:5052
	BaseURL string

	// Timeout applies to every request.
	// Default: 10s
	Timeout time.Duration
}

type StorageConfig struct {
	// Backend is one of file, badger, s3.
	// Default: file
	Backend string

	// Dir is where the file and badger backends keep their data.
	// Default: $XDG_DATA_HOME/taskhub
	Dir string

	S3 S3Config
}

type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	PathStyle bool
}

type LogConfig struct {
	Level string
	JSON  bool
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":5052",
			ShutdownTimeout: 5 * time.Second,
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:5052",
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     jsonfile.DefaultDir(),
			S3:      S3Config{Prefix: "taskhub"},
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load returns the defaults with environment overrides applied.
func Load() *Config {
	c := Default()
	c.loadFromEnv()
	return c
}

func (c *Config) loadFromEnv() {
	// Server
	if v := os.Getenv("TASKHUB_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TASKHUB_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.ShutdownTimeout = d
		}
	}
	if v := os.Getenv("TASKHUB_DB_DRIVER"); v != "" {
		c.Server.DBDriver = v
	}
	if v := os.Getenv("TASKHUB_DB_DSN"); v != "" {
		c.Server.DBDSN = v
	}

	// Client
	if v := os.Getenv("TASKHUB_API_URL"); v != "" {
		c.Client.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("TASKHUB_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Client.Timeout = d
		}
	}

	// Storage
	if v := os.Getenv("TASKHUB_STORAGE"); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("TASKHUB_DATA_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("TASKHUB_S3_BUCKET"); v != "" {
		c.Storage.S3.Bucket = v
	}
	if v := os.Getenv("TASKHUB_S3_PREFIX"); v != "" {
		c.Storage.S3.Prefix = v
	}
	if v := os.Getenv("TASKHUB_S3_REGION"); v != "" {
		c.Storage.S3.Region = v
	}
	if v := os.Getenv("TASKHUB_S3_ENDPOINT"); v != "" {
		c.Storage.S3.Endpoint = v
	}
	if v := os.Getenv("TASKHUB_S3_PATH_STYLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Storage.S3.PathStyle = b
		}
	}

	// Logging
	if v := os.Getenv("TASKHUB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TASKHUB_LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.JSON = b
		}
	}
}
