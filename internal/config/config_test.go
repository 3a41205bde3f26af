package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Dataset.Features, 13)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
dataset:
  file: /tmp/heart.csv
  timeout: 5s
plot:
  renderer: gochart
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/heart.csv", cfg.Dataset.File)
	assert.Equal(t, 5*time.Second, cfg.Dataset.Timeout)
	assert.Equal(t, "gochart", cfg.Plot.Renderer)
	assert.Equal(t, 750, cfg.Plot.Width)
	assert.Equal(t, []string{"num"}, cfg.Dataset.Targets)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"renderer": "plot:\n  renderer: matplotlib\n",
		"targets":  "dataset:\n  targets: []\n",
		"size":     "window:\n  width: 0\n",
		"yaml":     "dataset: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	path := writeConfig(t, "log_level: warn\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
