// Package config loads ftsmeta configuration from environment
// variables, applies defaults, and validates the result on startup.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Logging  LoggingConfig
	Source   SourceConfig
	Database DatabaseConfig
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: json or console.
	Format string `env:"LOG_FORMAT" default:"console"`
}

// SourceConfig locates the FTS documents to parse.
type SourceConfig struct {
	// Provider selects the document source: local or minio.
	Provider string `env:"SOURCE_PROVIDER" default:"local"`

	// Root is the directory holding the documents (local provider).
	Root string `env:"SOURCE_ROOT" default:"."`

	// MinIO staging bucket settings, used when Provider is minio.
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET"`
	Region    string `env:"MINIO_REGION"`
	UseSSL    bool   `env:"MINIO_USE_SSL" default:"false"`
}

// DatabaseConfig holds connection settings for DDL apply and verify.
// The URL is only required when a database operation is requested.
type DatabaseConfig struct {
	// Driver selects the SQL backend: postgres or mysql.
	Driver string `env:"DATABASE_DRIVER" default:"postgres"`

	// URL is the connection string.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Pool sizing for a short-lived batch run.
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"30m"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"5m"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
	QueryTimeout    time.Duration `env:"DB_QUERY_TIMEOUT" default:"30s"`
}
