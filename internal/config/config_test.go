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
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "release", cfg.HTTP.Mode)
	assert.Equal(t, "data/cardstack.db", cfg.Storage.DBPath)
	assert.Equal(t, "web/dist", cfg.Static.Dir)
	assert.Equal(t, time.Minute, cfg.Deck.SweepInterval)
	assert.True(t, cfg.Deck.Seed)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Encoding)
	assert.Equal(t, 600, cfg.RateLimit.PerMinute)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cardstack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9090"
storage:
  db_path: /tmp/deck.db
deck:
  sweep_interval: 30s
  seed: false
logger:
  level: debug
  encoding: json
cors:
  allowed_origins:
    - http://localhost:5173
`), 0o644))

	t.Setenv("CARDSTACK_HTTP_ADDR", ":7070")
	t.Setenv("CARDSTACK_RATE_LIMIT_PER_MINUTE", "0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Addr, "env wins over file")
	assert.Equal(t, "/tmp/deck.db", cfg.Storage.DBPath)
	assert.Equal(t, 30*time.Second, cfg.Deck.SweepInterval)
	assert.False(t, cfg.Deck.Seed)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Encoding)
	assert.Equal(t, 0, cfg.RateLimit.PerMinute)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	path := filepath.Join(t.TempDir(), "cardstack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("deck:\n  sweep_interval: 0s\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "sweep_interval")
}
