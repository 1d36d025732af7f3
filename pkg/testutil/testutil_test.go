package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()
	path := CreateFile(t, dir, "sub/file.txt", "content")
	assert.True(t, FileExists(t, path))
}

func TestCreateDir(t *testing.T) {
	dir := t.TempDir()
	path := CreateDir(t, dir, "nested/dir")
	assert.False(t, FileExists(t, path))
	assert.DirExists(t, path)
}

func TestInstallProduct(t *testing.T) {
	root := t.TempDir()
	dir := InstallProduct(t, root, "afw", "PROJECT_NAME = afw\n")
	assert.True(t, FileExists(t, filepath.Join(dir, "ups", "doxygen.conf")))
}
