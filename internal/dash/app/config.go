package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer     string        // Issuer claim for session tokens (default: datadash)
	SessionKey string        // Optional: path to PKCS8 PEM Ed25519 key; ephemeral when unset
	SessionTTL time.Duration // Session token lifetime (default: 15m)

	DatabaseFile string // Path to SQLite database file (default: ./datadash.db)
	UploadDir    string // Directory for stored upload blobs (default: ./uploads)

	AdminEmail    string // Optional: seed admin email, applied only to an empty store
	AdminPassword string // Optional: seed admin password

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)

	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Orphaned file record sweep interval (default: 1h)
}

func LoadConfig() Config {
	// Best effort; env vars win over .env entries.
	_ = godotenv.Load()

	return Config{
		Issuer:               getEnvOrDefault("DASH_ISSUER", "datadash"),
		SessionKey:           os.Getenv("DASH_SESSION_KEY_FILE"),
		SessionTTL:           getEnvDurationOrDefault("DASH_SESSION_TTL", 15*time.Minute),
		DatabaseFile:         getEnvOrDefault("DASH_DATABASE_FILE", "datadash.db"),
		UploadDir:            getEnvOrDefault("DASH_UPLOAD_DIR", "uploads"),
		AdminEmail:           os.Getenv("DASH_ADMIN_EMAIL"),
		AdminPassword:        os.Getenv("DASH_ADMIN_PASSWORD"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
