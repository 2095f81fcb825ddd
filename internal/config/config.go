// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

// Notification backends
const (
	NotificationBackendLocal = "local"
	NotificationBackendAsynq = "asynq"
)

// Config holds all configuration for the application
type Config struct {
	Database      DatabaseConfig
	Redis         RedisConfig
	Server        ServerConfig
	Logging       LoggingConfig
	CORS          CORSConfig
	JWT           JWTConfig
	SMTP          SMTPConfig
	Storage       StorageConfig
	Notifications NotificationConfig
	ActivityLog   ActivityLogConfig
	FrontendURL   string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	MaxOpenConns int
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port pair of the Redis server
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port          int
	MaxBodySize   int64
	MaxUploadSize int64
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds admin token configuration
type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

// SMTPConfig holds SMTP server configuration.
// An empty Host disables email delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
}

// StorageConfig selects and configures the blob store
type StorageConfig struct {
	Backend    string
	UploadDir  string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
}

// NotificationConfig selects how invitation emails are dispatched
type NotificationConfig struct {
	Backend   string
	QueueSize int
}

// ActivityLogConfig holds activity log retention settings.
// A zero Retention keeps entries forever.
type ActivityLogConfig struct {
	Retention       time.Duration
	CleanupSchedule string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	cfg.Database.Password = os.Getenv("DB_PASSWORD")

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	if cfg.Database.MaxOpenConns, err = intEnv("DB_MAX_OPEN_CONNS", 5); err != nil {
		return nil, err
	}

	// Server configuration
	if cfg.Server.Port, err = intEnv("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	maxUpload, err := intEnv("MAX_UPLOAD_SIZE", 250*1024*1024) // 250MB
	if err != nil {
		return nil, err
	}
	cfg.Server.MaxUploadSize = int64(maxUpload)
	maxBody, err := intEnv("MAX_BODY_SIZE", 1024*1024) // 1MB
	if err != nil {
		return nil, err
	}
	cfg.Server.MaxBodySize = int64(maxBody)

	// Logging configuration
	cfg.Logging.Level = stringEnv("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret
	if cfg.JWT.TokenExpiry, err = durationEnv("JWT_TOKEN_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}

	cfg.FrontendURL = strings.TrimRight(stringEnv("FRONTEND_URL", "http://localhost:5173"), "/")

	// Storage configuration
	cfg.Storage.Backend = stringEnv("STORAGE_BACKEND", StorageBackendLocal)
	cfg.Storage.UploadDir = stringEnv("UPLOAD_DIR", "./uploads")
	cfg.Storage.S3Bucket = os.Getenv("S3_BUCKET")
	cfg.Storage.S3Region = stringEnv("S3_REGION", "us-east-1")
	cfg.Storage.S3Endpoint = os.Getenv("S3_ENDPOINT")
	switch cfg.Storage.Backend {
	case StorageBackendLocal:
	case StorageBackendS3:
		if cfg.Storage.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q", cfg.Storage.Backend)
	}

	// Notification configuration
	cfg.Notifications.Backend = stringEnv("NOTIFICATION_BACKEND", NotificationBackendLocal)
	if cfg.Notifications.Backend != NotificationBackendLocal && cfg.Notifications.Backend != NotificationBackendAsynq {
		return nil, fmt.Errorf("invalid NOTIFICATION_BACKEND: %q", cfg.Notifications.Backend)
	}
	if cfg.Notifications.QueueSize, err = intEnv("NOTIFICATION_QUEUE_SIZE", 100); err != nil {
		return nil, err
	}

	// Redis configuration (only used by the asynq backend and the worker)
	cfg.Redis.Host = stringEnv("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = intEnv("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD") // optional
	if cfg.Redis.DB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	// SMTP configuration (optional, email is skipped when SMTP_HOST is empty)
	cfg.SMTP.Host = os.Getenv("SMTP_HOST")
	if cfg.SMTP.Port, err = intEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = stringEnv("SMTP_FROM", cfg.SMTP.Username)
	cfg.SMTP.FromName = stringEnv("SMTP_FROM_NAME", "Media Survey")
	if cfg.SMTP.Timeout, err = durationEnv("SMTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	// Activity log retention
	if cfg.ActivityLog.Retention, err = durationEnv("ACTIVITY_LOG_RETENTION", 0); err != nil {
		return nil, err
	}
	cfg.ActivityLog.CleanupSchedule = stringEnv("ACTIVITY_LOG_CLEANUP_SCHEDULE", "@daily")

	return cfg, nil
}

// DSN returns the database connection string.
// Sessions are pinned to UTC to match loc. Migrations need multiStatements.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC&time_zone=%%27%%2B00%%3A00%%27&multiStatements=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// parseOrigins splits a comma-separated origin list, defaulting to all origins
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
