package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.Empty(t, cfg.DBPath)
	require.Equal(t, "templates/index.html", cfg.TemplatePath)
}

func TestFromEnv_MissingFileUsesDefaults(t *testing.T) {
	for _, key := range []string{EnvAddr, EnvLogLevel, EnvLogFormat, EnvDBPath, EnvTemplatePath} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, DefaultServerConfig(), cfg)
}

func TestFromEnv_FileAndProcessEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "schedsim.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"SCHEDSIM_ADDR=:9090\nSCHEDSIM_DB="+filepath.Join(dir, "runs.db")+"\nSCHEDSIM_LOG_FORMAT=json\n"), 0o644))

	// Process environment takes precedence over the file.
	t.Setenv(EnvAddr, ":7070")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvTemplatePath, "")
	for _, key := range []string{EnvDBPath, EnvLogFormat} {
		t.Setenv(key, "") // restores the original value on cleanup
		os.Unsetenv(key)
	}

	cfg, err := FromEnv(envFile)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Addr)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, filepath.Join(dir, "runs.db"), cfg.DBPath)
	require.Equal(t, "templates/index.html", cfg.TemplatePath)
}
