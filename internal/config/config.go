package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Comment signing, abuse guard and admin settings
	Security SecurityConfig

	// Redis configuration (signature replay guard)
	Redis RedisConfig

	// Push notification configuration
	Push PushConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// SecurityConfig holds the shared secrets and abuse-guard windows
type SecurityConfig struct {
	CommentSecret           string
	AdminSecretKey          string
	SignatureWindow         time.Duration
	RateLimitWindow         time.Duration
	EnforceCommentOwnership bool
	Timezone                string
}

// RedisConfig holds Redis settings. An empty URL disables the replay guard.
type RedisConfig struct {
	URL string
}

// PushConfig holds push-messaging settings
type PushConfig struct {
	CredentialsFile string // empty means log-only delivery
	Concurrency     int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables, after loading .env if present
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "slunch"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Security: SecurityConfig{
			CommentSecret:           getEnv("COMMENT_SECRET", ""),
			AdminSecretKey:          getEnv("ADMIN_SECRET_KEY", ""),
			SignatureWindow:         getDurationEnv("SIGNATURE_WINDOW", 30*time.Second),
			RateLimitWindow:         getDurationEnv("RATE_LIMIT_WINDOW", 30*time.Second),
			EnforceCommentOwnership: getBoolEnv("ENFORCE_COMMENT_OWNERSHIP", false),
			Timezone:                getEnv("TIMEZONE", "Asia/Seoul"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Push: PushConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			Concurrency:     getIntEnv("PUSH_CONCURRENCY", 8),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Security.CommentSecret == "" {
		return fmt.Errorf("COMMENT_SECRET is required")
	}
	if c.Security.AdminSecretKey == "" {
		return fmt.Errorf("ADMIN_SECRET_KEY is required")
	}
	if c.Security.SignatureWindow <= 0 || c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("SIGNATURE_WINDOW and RATE_LIMIT_WINDOW must be positive")
	}
	if _, err := time.LoadLocation(c.Security.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Security.Timezone, err)
	}
	if c.Push.Concurrency < 1 {
		c.Push.Concurrency = 1
	}
	return nil
}

// Location returns the timezone that bounds a comment "day"
func (c *SecurityConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
