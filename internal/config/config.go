package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CleanupConfig holds expiry-sweep settings. The secret authenticates the
// external trigger; IntervalMin > 0 additionally runs an in-process ticker.
type CleanupConfig struct {
	Secret      string
	IntervalMin int
	// OrphanGraceMin is how old an unreferenced blob must be before the
	// reconciliation pass may remove it.
	OrphanGraceMin int
}

// RateLimitConfig holds the token-bucket parameters for the serving paths.
type RateLimitConfig struct {
	Capacity   int
	RefillRate int
	RefillSec  int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	// BaseURL is the public origin used to build returned file URLs.
	BaseURL   string
	Port      string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Cleanup   CleanupConfig
	RateLimit RateLimitConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Cleanup: CleanupConfig{
			Secret:         getEnv("CLEANUP_SECRET", ""),
			IntervalMin:    getEnvInt("CLEANUP_INTERVAL_MIN", 60),
			OrphanGraceMin: getEnvInt("ORPHAN_GRACE_MIN", 60),
		},
		RateLimit: RateLimitConfig{
			Capacity:   getEnvInt("RATE_LIMIT_CAPACITY", 60),
			RefillRate: getEnvInt("RATE_LIMIT_REFILL", 60),
			RefillSec:  getEnvInt("RATE_LIMIT_REFILL_SEC", 60),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
