package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProductConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ups"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ups", "doxmerge.toml"), []byte(content), 0644))
	return dir
}

func TestLoadProductConfigMissing(t *testing.T) {
	cfg, err := LoadProductConfig(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.Skip)
	assert.Empty(t, cfg.Fragment)
}

func TestLoadProductConfigSkip(t *testing.T) {
	dir := writeProductConfig(t, "skip = true\n")
	cfg, err := LoadProductConfig(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Skip)
}

func TestLoadProductConfigFragment(t *testing.T) {
	dir := writeProductConfig(t, `fragment = "doc/custom.conf"`)
	cfg, err := LoadProductConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "doc/custom.conf", cfg.Fragment)
}

func TestLoadProductConfigMalformed(t *testing.T) {
	dir := writeProductConfig(t, "skip = [broken")
	_, err := LoadProductConfig(dir)
	assert.Error(t, err)
}
