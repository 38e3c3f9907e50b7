package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 1.0, cfg.RateLimitRPS)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.True(t, cfg.InsecureSecret())
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "s3cr3t", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.True(t, cfg.TrustProxy)
	assert.False(t, cfg.InsecureSecret())
}

func TestLoad_DotEnvAndConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REDIS_ADDR=cache:6379\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("REDIS_ADDR") })

	file := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log_level: debug\nhttp_addr: \":7000\"\n"), 0o600))

	cfg, err := Load(New(), file)
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_TTL", "forever")

	_, err := Load(New(), "")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l := NewLogger("debug", "text")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)

	l = NewLogger("nonsense", "json")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}
