// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with defaults and
// validates all settings on startup.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Parse    ParseConfig
	Sources  SourcesConfig
	Cache    CacheConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"3m"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including waiting for parses (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for non-upload requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds database connection settings.
// The database is optional; without a URL schedules live in memory only.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether a database URL is configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ParseConfig holds PDF parsing and table reconstruction settings.
type ParseConfig struct {
	// MaxFileSize is the maximum accepted PDF size in bytes (default: 20MB)
	MaxFileSize int64 `env:"PARSE_MAX_FILE_SIZE" default:"20971520"`

	// MaxConcurrent is the number of parses allowed to run at once (default: 2)
	MaxConcurrent int `env:"PARSE_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long an upload waits for a parse slot (default: 10s)
	MaxWaitTime time.Duration `env:"PARSE_MAX_WAIT" default:"10s"`

	// Timeout bounds a single parse (default: 2m)
	Timeout time.Duration `env:"PARSE_TIMEOUT" default:"2m"`

	HeaderFragments int     `env:"PARSE_HEADER_FRAGMENTS" default:"28"`
	DetectHeader    bool    `env:"PARSE_DETECT_HEADER" default:"false"`
	HeaderTolerance float64 `env:"PARSE_HEADER_TOLERANCE" default:"0.5"`
	DataTolerance   float64 `env:"PARSE_DATA_TOLERANCE" default:"0.1"`
	SnapDistance    float64 `env:"PARSE_SNAP_DISTANCE" default:"0.7"`
	LastColumnWidth float64 `env:"PARSE_LAST_COLUMN_WIDTH" default:"10"`
	MaxPages        int     `env:"PARSE_MAX_PAGES" default:"0"`

	// Binding is "label" or "position" (default: label)
	Binding string `env:"PARSE_BINDING" default:"label"`

	// Unit is the number of PDF points per layout unit (default: 16)
	Unit float64 `env:"PARSE_UNIT" default:"16"`

	// Backends lists the glyph decoders to try, in order
	Backends []string `env:"PARSE_BACKENDS" default:"ledongthuc,dslipak"`

	// Validate runs pdfcpu validation and logs its findings (default: false)
	Validate bool `env:"PARSE_VALIDATE" default:"false"`
}

// SourcesConfig holds the exam plan files loaded at startup.
type SourcesConfig struct {
	// Files is a comma-separated list of name=path entries or bare paths
	Files []string `env:"SCHEDULE_SOURCES"`

	// RefreshInterval is how often source files are checked for changes; 0 disables (default: 5m)
	RefreshInterval time.Duration `env:"SCHEDULE_REFRESH_INTERVAL" default:"5m"`

	// LoadWorkers bounds concurrent source parsing at startup (default: 2)
	LoadWorkers int `env:"SCHEDULE_LOAD_WORKERS" default:"2"`

	// DefaultPlan is the plan served when a request names none
	DefaultPlan string `env:"SCHEDULE_DEFAULT_PLAN"`
}

// CacheConfig holds the parse result cache settings.
type CacheConfig struct {
	// Entries is the number of parse results kept by content hash (default: 16)
	Entries int `env:"CACHE_ENTRIES" default:"16"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for the upload endpoint (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the upload endpoint (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File switches output from stdout to a rotated log file
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" default:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" default:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" default:"28"`
	Compress   bool   `env:"LOG_COMPRESS" default:"true"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
