package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Auth      AuthConfig
	Log       LogConfig
	Reconcile ReconcileConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds the shared secret that guards administrative endpoints.
// An empty APIKey makes every protected route answer 500.
type AuthConfig struct {
	APIKey       string
	TimeTokenTTL time.Duration
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Debug bool
}

// ReconcileConfig controls the scheduled recompute of every investor's derived data.
// An empty Schedule disables the job.
type ReconcileConfig struct {
	Schedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("TIME_TOKEN_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid TIME_TOKEN_TTL: must be positive")
	}

	debug, err := strconv.ParseBool(getEnv("LOG_DEBUG", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_DEBUG: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/investor_dashboard.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Auth: AuthConfig{
			APIKey:       os.Getenv("INTERNAL_API_KEY"),
			TimeTokenTTL: ttl,
		},
		Log: LogConfig{
			Debug: debug,
		},
		Reconcile: ReconcileConfig{
			Schedule: getEnvAllowEmpty("RECONCILE_SCHEDULE", "0 3 * * *"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAllowEmpty is like getEnv but keeps an explicitly set empty value.
func getEnvAllowEmpty(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
