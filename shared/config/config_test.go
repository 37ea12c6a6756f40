package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load("8082")
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, ModeSQL, cfg.Catalog.Mode)
	assert.Equal(t, 50, cfg.Catalog.SearchLimit)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.RequireToken)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	content := `
port = "9000"
log_level = "debug"

[redis]
addr = "cache:6379"
cache_ttl = "5m"

[auth]
jwt_secret = "from-file"
require_token = true

[catalog]
mode = "memory"
search_limit = 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SEARCH_LIMIT", "30")

	cfg, err := Load("8082")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.RequireToken)
	assert.Equal(t, ModeMemory, cfg.Catalog.Mode)
	assert.Equal(t, 30, cfg.Catalog.SearchLimit)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CATALOG_MODE", "graph")
	_, err := Load("8082")
	assert.Error(t, err)
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("REQUIRE_AUTH", "maybe")
	_, err := Load("8082")
	assert.Error(t, err)
}

func TestEmptyRedisAddrDisablesCache(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("REDIS_ADDR", "")
	cfg, err := Load("8082")
	require.NoError(t, err)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestRequireJWTSecret(t *testing.T) {
	cfg := Default("8081")
	assert.Error(t, cfg.RequireJWTSecret())
	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.RequireJWTSecret())
}

func TestTrustedProxiesFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.5 ,")
	cfg, err := Load("8081")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.5"}, cfg.Gateway.TrustedProxies)
}

func TestNoTrustedProxiesByDefault(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TRUSTED_PROXIES", "")
	cfg, err := Load("8081")
	require.NoError(t, err)
	assert.Empty(t, cfg.Gateway.TrustedProxies)
}
