package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDBPath(t *testing.T) {
	t.Setenv("DB_PATH", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "test.sqlite3")
	t.Setenv("ADDR", "")
	t.Setenv("UPLOADS_DIR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test.sqlite3", cfg.DBPath)
	assert.Equal(t, ":4000", cfg.Addr)
	assert.Equal(t, "uploads", cfg.UploadsDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_PATH", "db.sqlite3")
	t.Setenv("ADDR", ":9000")
	t.Setenv("SESSION_SECRET", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "hunter2", cfg.SessionSecret)
}
