package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("MINIO_USE_SSL", "true")
	os.Setenv("BASE_URL", "https://files.example.com")
	os.Setenv("CLEANUP_SECRET", "sweep-secret")
	os.Setenv("CLEANUP_INTERVAL_MIN", "15")
	os.Setenv("RATE_LIMIT_CAPACITY", "100")
	defer func() {
		for _, k := range []string{"DB_MAX_OPEN_CONNS", "MINIO_USE_SSL", "BASE_URL",
			"CLEANUP_SECRET", "CLEANUP_INTERVAL_MIN", "RATE_LIMIT_CAPACITY"} {
			os.Unsetenv(k)
		}
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "https://files.example.com", cfg.BaseURL)
	assert.Equal(t, "sweep-secret", cfg.Cleanup.Secret)
	assert.Equal(t, 15, cfg.Cleanup.IntervalMin)
	assert.Equal(t, 60, cfg.Cleanup.OrphanGraceMin)
	assert.Equal(t, 100, cfg.RateLimit.Capacity)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
