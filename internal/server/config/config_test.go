package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears every variable the loader reads and restores them after the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		envFileVar, "CHIRP_HTTP_ADDR", "CHIRP_DATABASE_DSN", "CHIRP_SECRET_KEY",
		"CHIRP_ACCESS_TOKEN_TTL", "CHIRP_REFRESH_TOKEN_TTL", "CHIRP_TOKEN_PURGE_INTERVAL",
		"CHIRP_LOG_LEVEL", "CHIRP_ALLOWED_ORIGINS", "CHIRP_RATE_LIMIT_RPS",
		"CHIRP_RATE_LIMIT_BURST", "CHIRP_SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv(envFileVar, filepath.Join(t.TempDir(), "absent.env"))
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":5000", c.HTTPAddr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.NoError(t, c.validate())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	isolateEnv(t)

	got, err := load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, got))
}

func TestLoad_Precedence(t *testing.T) {
	isolateEnv(t)

	dir := t.TempDir()
	jsonPath := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"http_addr":    ":7000",
		"database_dsn": "from-json",
		"log_level":    "debug",
	})

	t.Setenv("CHIRP_DATABASE_DSN", "from-env")
	t.Setenv("CHIRP_ALLOWED_ORIGINS", "http://a,http://b")
	t.Setenv("CHIRP_SHUTDOWN_TIMEOUT", "2s")

	got, err := load([]string{"-c", jsonPath, "-l", "error", "-t", "5"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", got.HTTPAddr, "json over defaults")
	assert.Equal(t, "from-env", got.DatabaseDSN, "env over json")
	assert.Equal(t, "error", got.LogLevel, "flags over json")
	assert.Equal(t, 5*time.Minute, got.AccessTokenValidityDuration)
	assert.Equal(t, []string{"http://a", "http://b"}, got.AllowedOrigins)
	assert.Equal(t, 2*time.Second, got.ShutdownTimeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CHIRP_SECRET_KEY=dotenv-secret\nCHIRP_RATE_LIMIT_BURST=3\n"), 0o600))
	t.Setenv(envFileVar, path)

	got, err := load(nil)
	require.NoError(t, err)

	assert.Equal(t, "dotenv-secret", got.SecretKey)
	assert.Equal(t, 3, got.RateLimitBurst)
}

func TestLoad_Invalid(t *testing.T) {
	isolateEnv(t)

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("CHIRP_RATE_LIMIT_BURST", "many")
		_, err := load(nil)
		assert.Error(t, err)
	})

	t.Run("zero access ttl", func(t *testing.T) {
		_, err := load([]string{"-t", "0"})
		assert.Error(t, err)
	})

	t.Run("bad flag value", func(t *testing.T) {
		_, err := load([]string{"-t", "soon"})
		assert.Error(t, err)
	})
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	err := parseFlags(cfg, []string{
		"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "1", "-r", "3", "-l", "warn",
		"-unknown", "x",
	})
	require.NoError(t, err)

	want := &Config{
		HTTPAddr:                     "127.0.0.1:9090",
		DatabaseDSN:                  "db",
		SecretKey:                    "secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: 3 * time.Minute,
		LogLevel:                     "warn",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}
