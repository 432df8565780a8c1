package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"CATALOG_API_URL", "CATALOG_TIMEOUT", "CATALOG_RPS", "CATALOG_USER_AGENT", "CATALOG_NAVIGATE_DELAY", "LOG_LEVEL", "CATALOG_LOG_FILE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		APIURL:        DefaultAPIURL,
		Timeout:       DefaultTimeout,
		RPS:           DefaultRPS,
		NavigateDelay: DefaultNavigateDelay,
		LogLevel:      "info",
	}, cfg)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CATALOG_API_URL", "http://catalog.internal:9000")
	t.Setenv("CATALOG_TIMEOUT", "3s")
	t.Setenv("CATALOG_RPS", "2.5")
	t.Setenv("CATALOG_NAVIGATE_DELAY", "0s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://catalog.internal:9000", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 2.5, cfg.RPS)
	assert.Zero(t, cfg.NavigateDelay)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Malformed(t *testing.T) {
	t.Setenv("CATALOG_TIMEOUT", "fifteen")
	_, err := Load()
	assert.ErrorContains(t, err, "CATALOG_TIMEOUT")

	t.Setenv("CATALOG_TIMEOUT", "")
	t.Setenv("CATALOG_RPS", "fast")
	_, err = Load()
	assert.ErrorContains(t, err, "CATALOG_RPS")

	t.Setenv("CATALOG_RPS", "")
	t.Setenv("CATALOG_NAVIGATE_DELAY", "-1s")
	_, err = Load()
	assert.ErrorContains(t, err, "must not be negative")
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("CATALOG_API_URL=from_file\nCATALOG_USER_AGENT=from_file\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env.local"), []byte("CATALOG_USER_AGENT=from_local\n"), 0644))

	t.Setenv("CATALOG_API_URL", "from_env")
	os.Unsetenv("CATALOG_USER_AGENT")
	t.Cleanup(func() { _ = os.Unsetenv("CATALOG_USER_AGENT") })

	cwd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("CATALOG_API_URL"))
	assert.Equal(t, "from_file", os.Getenv("CATALOG_USER_AGENT"))
}
