package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "HOST", "PORT", "FRONTEND_URL", "LOG_LEVEL", "SHUTDOWN_TIMEOUT",
		"DATABASE_URL", "DATABASE_NAME", "DATABASE_CONNECT_TIMEOUT",
		"REDIS_URL", "CACHE_ENABLED", "CACHE_TTL", "CACHE_METHODS",
		"METRICS_ENABLED", "METRICS_PATH",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestParseDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.Empty(t, cfg.Database.URL)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}

func TestParseOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("FRONTEND_URL", "https://example.com")
	t.Setenv("DATABASE_URL", "mysql://app@db:3306/app")
	t.Setenv("DATABASE_NAME", "reports")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_METHODS", "get,HEAD")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, []string{"https://example.com"}, cfg.AllowedOrigins())
	assert.Equal(t, "mysql://app@db:3306/app", cfg.Database.URL)
	assert.Equal(t, "reports", cfg.Database.Name)
	assert.True(t, cfg.Cache.Caches("GET"))
	assert.True(t, cfg.Cache.Caches("head"))
	assert.False(t, cfg.Cache.Caches("POST"))
}

func TestParseAcceptsCriticalLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "CRITICAL")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "CRITICAL", cfg.LogLevel)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"NonNumericPort", "PORT", "eighty"},
		{"PortOutOfRange", "PORT", "70000"},
		{"UnknownLogLevel", "LOG_LEVEL", "verbose"},
		{"RelativeMetricsPath", "METRICS_PATH", "metrics"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestLoadWithoutDotEnv(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
