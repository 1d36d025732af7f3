package doxyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultMarkers = []string{"doc", "include", "src", "python", "examples", "lib", "tests"}

func installedTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"include/pkg", "src", "doc", "python/pkg"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc", "main.dox"), []byte("x"), 0644))
	return dir
}

func TestRewriteMarkerReroot(t *testing.T) {
	dir := installedTree(t)
	r := NewRewriter(dir, defaultMarkers)

	// Build-tree relative paths anchor at the marker segment.
	got, ok := r.Rewrite("../include/pkg")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "include", "pkg"), got)

	got, ok = r.Rewrite("/scratch/build/pkg-1.2/src")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "src"), got)
}

func TestRewriteIdempotent(t *testing.T) {
	dir := installedTree(t)
	r := NewRewriter(dir, defaultMarkers)

	installed := filepath.Join(dir, "include", "pkg")
	got, ok := r.Rewrite(installed)
	require.True(t, ok)
	assert.Equal(t, installed, got)

	// A second pass changes nothing.
	again, ok := r.Rewrite(got)
	require.True(t, ok)
	assert.Equal(t, got, again)
}

func TestRewriteRelativeChild(t *testing.T) {
	dir := installedTree(t)
	r := NewRewriter(dir, defaultMarkers)

	got, ok := r.Rewrite("doc/main.dox")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "doc", "main.dox"), got)
}

func TestRewriteKeepsExistingOriginal(t *testing.T) {
	dir := installedTree(t)
	other := t.TempDir()
	outside := filepath.Join(other, "extra.dox")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))

	r := NewRewriter(dir, defaultMarkers)
	got, ok := r.Rewrite(outside)
	require.True(t, ok)
	assert.Equal(t, outside, got)
}

func TestRewriteDropsMissing(t *testing.T) {
	dir := installedTree(t)
	r := NewRewriter(dir, defaultMarkers)

	_, ok := r.Rewrite("../include/nonexistent")
	assert.False(t, ok)

	_, ok = r.Rewrite("/no/such/path")
	assert.False(t, ok)
}

func TestRewriteFragment(t *testing.T) {
	dir := installedTree(t)
	r := NewRewriter(dir, defaultMarkers)

	frag := NewFragment("pkg", "test")
	frag.Set("INPUT", []string{"../include/pkg", "../src", "missing/dir"})
	frag.Set("PROJECT_NAME", []string{"../src"})

	r.RewriteFragment(frag, []string{"INPUT"})

	assert.Equal(t, []string{
		filepath.Join(dir, "include", "pkg"),
		filepath.Join(dir, "src"),
	}, frag.Get("INPUT"))
	// Non path-like options untouched.
	assert.Equal(t, []string{"../src"}, frag.Get("PROJECT_NAME"))
}
