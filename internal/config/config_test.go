package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 9090, "slot": "my-resume", "debounce_ms": 250}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "my-resume", cfg.Slot)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9090}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 9090, merged.Port, "explicit value wins")
	assert.Equal(t, "gemini-2.5-flash", merged.Model)
	assert.Equal(t, "resume-data", merged.Slot)
	assert.Equal(t, 500, merged.DebounceMS)
	assert.Equal(t, ".", merged.DataDir)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Port = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.DebounceMS = -1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Slot = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.DataDir = ""
	assert.Error(t, bad.Validate())

	bad.DatabaseURL = "postgres://localhost/resumes"
	assert.NoError(t, bad.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("DATABASE_URL", "postgres://localhost/resumes")

	cfg := FromEnv()
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, "postgres://localhost/resumes", cfg.DatabaseURL)
}
