package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Directory.BaseURL)
	assert.Zero(t, cfg.Directory.Timeout)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 3*time.Second, cfg.Console.NotificationTTL)
	assert.True(t, cfg.Console.SequenceGuard)
	assert.True(t, cfg.Exports.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DIRECTORY_BASE_URL", "http://directory.internal:9000/")
	t.Setenv("DIRECTORY_TIMEOUT", "4s")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("CONSOLE_SEQUENCE_GUARD", "false")
	t.Setenv("NOTIFICATION_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://directory.internal:9000", cfg.Directory.BaseURL)
	assert.Equal(t, 4*time.Second, cfg.Directory.Timeout)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.False(t, cfg.Console.SequenceGuard)
	assert.Equal(t, 3*time.Second, cfg.Console.NotificationTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestUnknownSessionStoreFallsBackToMemory(t *testing.T) {
	t.Setenv("SESSION_STORE", "etcd")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
}
