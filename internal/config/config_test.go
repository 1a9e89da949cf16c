package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.MockLatency)
	assert.True(t, cfg.MockSeed)
	assert.Equal(t, "mockGoals", cfg.StorageKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_BACKEND", BackendMock)
	t.Setenv("MOCK_LATENCY", "0s")
	t.Setenv("MOCK_SEED", "false")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_EXPIRY", "1h")

	cfg := Load()

	assert.Equal(t, BackendMock, cfg.DataBackend)
	assert.Equal(t, time.Duration(0), cfg.MockLatency)
	assert.False(t, cfg.MockSeed)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "three")
	t.Setenv("MOCK_SEED", "maybe")
	t.Setenv("MOCK_LATENCY", "soon")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.True(t, cfg.MockSeed)
	assert.Equal(t, 500*time.Millisecond, cfg.MockLatency)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppEnv:      "development",
			DataBackend: BackendMock,
			KVDriver:    KVMemory,
			JWTSecret:   defaultJWTSecret,
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.DataBackend = "supabase"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.KVDriver = KVRedis
	assert.Error(t, cfg.Validate())
	cfg.RedisAddr = "localhost:6379"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.KVDriver = "localStorage"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.AppEnv = "production"
	assert.Error(t, cfg.Validate())
	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}
