package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenPathEmpty(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigOverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("viewport_width: 1024\nviewport_height: 768\norigin: https://app.example.com\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 1024.0, cfg.ViewportWidth)
	require.Equal(t, 768.0, cfg.ViewportHeight)
	require.Equal(t, "https://app.example.com", cfg.Origin)
	require.Equal(t, []string{"http", "https", "file"}, cfg.AllowedSchemes, "unset fields keep their default")
}
