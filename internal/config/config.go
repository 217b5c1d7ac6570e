package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration settings. It is built once
// at process start and passed by reference into each component.
type Config struct {
	HTTPPort    int           `envconfig:"HTTP_PORT" default:"8080"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	WorkerPoolSize int `envconfig:"WORKER_POOL_SIZE" default:"4"`
	QueueSize      int `envconfig:"QUEUE_SIZE" default:"100"`

	DownloadDir  string `envconfig:"DOWNLOAD_DIR" default:"./downloads"`
	TempDir      string `envconfig:"TEMP_DIR" default:"./tmp"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"./accio.db"`
	CookiesFile  string `envconfig:"COOKIES_FILE" default:"./cookies.txt"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`

	WebDAVURL      string `envconfig:"WEBDAV_URL"`
	WebDAVUser     string `envconfig:"WEBDAV_USER"`
	WebDAVPassword string `envconfig:"WEBDAV_PASSWORD"`
	WebDAVRoot     string `envconfig:"WEBDAV_ROOT" default:"/accio"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("worker pool size must be positive: %d", c.WorkerPoolSize)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue size must be positive: %d", c.QueueSize)
	}

	if c.DownloadDir == "" {
		return fmt.Errorf("download directory cannot be empty")
	}
	if c.TempDir == "" {
		return fmt.Errorf("temp directory cannot be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.WebDAVURL != "" && c.WebDAVRoot == "" {
		return fmt.Errorf("webdav root cannot be empty when webdav is configured")
	}

	return nil
}

// RemoteSyncEnabled reports whether a WebDAV endpoint is configured.
func (c *Config) RemoteSyncEnabled() bool {
	return c.WebDAVURL != ""
}
