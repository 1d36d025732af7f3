package eups

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/arthur-debert/doxmerge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEups writes a shell script that records its arguments, then echoes the
// canned output. The returned function reads back the recorded argv.
func stubEups(t *testing.T, script string) (*CLI, func() []string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts require a POSIX shell")
	}

	dir := t.TempDir()
	argvPath := filepath.Join(dir, "argv")
	path := filepath.Join(dir, "eups")
	body := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" > %s\n%s\n", argvPath, script)
	require.NoError(t, os.WriteFile(path, []byte(body), 0755))

	argv := func() []string {
		data, err := os.ReadFile(argvPath)
		require.NoError(t, err)
		return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}
	return &CLI{Binary: path}, argv
}

func TestCLIProductDir(t *testing.T) {
	cli, argv := stubEups(t, `echo "/opt/stack/afw/1.2.3"`)

	dir, err := cli.ProductDir(context.Background(), "afw", "1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "/opt/stack/afw/1.2.3", dir)
	assert.Equal(t, []string{"list", "--directory", "afw", "1.2.3"}, argv())
}

func TestCLIProductDirUnversioned(t *testing.T) {
	cli, argv := stubEups(t, `echo "/opt/stack/afw/1.2.3"`)

	_, err := cli.ProductDir(context.Background(), "afw", "")
	require.NoError(t, err)
	// No version argument when none is pinned.
	assert.Equal(t, []string{"list", "--directory", "afw"}, argv())
}

func TestCLIProductDirNotFound(t *testing.T) {
	cli, _ := stubEups(t, `exit 0`)

	_, err := cli.ProductDir(context.Background(), "nosuch", "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProductNotFound))
}

func TestCLIProductDirExecFailure(t *testing.T) {
	cli, _ := stubEups(t, `echo "unknown product" >&2; exit 1`)

	_, err := cli.ProductDir(context.Background(), "nosuch", "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEupsExec))
	assert.Contains(t, err.Error(), "unknown product")
}

func TestCLIDependencies(t *testing.T) {
	cli, argv := stubEups(t, `cat <<EOT
afw 1.2.3
base 2.0
utils 3.1
EOT`)

	deps, err := cli.Dependencies(context.Background(), "afw", "1.2.3", true)
	require.NoError(t, err)
	// The product itself is dropped from its own closure.
	assert.Equal(t, []Product{
		{Name: "base", Version: "2.0"},
		{Name: "utils", Version: "3.1"},
	}, deps)
	assert.Equal(t, []string{"list", "--dependencies", "--exact", "afw", "1.2.3"}, argv())
}

func TestCLIDependenciesTagged(t *testing.T) {
	cli, argv := stubEups(t, `echo "base 2.0"`)

	_, err := cli.Dependencies(context.Background(), "afw", "", false)
	require.NoError(t, err)
	// No --exact and no version when resolving through a tag.
	assert.Equal(t, []string{"list", "--dependencies", "afw"}, argv())
}

func TestCLITagVersion(t *testing.T) {
	cli, argv := stubEups(t, `echo "4.5.6"`)

	v, err := cli.TagVersion(context.Background(), "afw", "current")
	require.NoError(t, err)
	assert.Equal(t, "4.5.6", v)
	assert.Equal(t, []string{"list", "--tag", "current", "--version", "afw"}, argv())
}

func TestProductString(t *testing.T) {
	assert.Equal(t, "afw 1.2.3", Product{Name: "afw", Version: "1.2.3"}.String())
	assert.Equal(t, "afw", Product{Name: "afw"}.String())
}

func TestFake(t *testing.T) {
	f := NewFake()
	f.AddProduct("afw", "1.2.3", "/stack/afw")
	f.AddDeps("afw", "1.2.3", Product{Name: "base", Version: "2.0"})
	f.AddTag("base", "current", "2.0")

	ctx := context.Background()

	dir, err := f.ProductDir(ctx, "afw", "1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "/stack/afw", dir)

	// Unversioned lookup resolves to the same directory.
	dir, err = f.ProductDir(ctx, "afw", "")
	require.NoError(t, err)
	assert.Equal(t, "/stack/afw", dir)

	deps, err := f.Dependencies(ctx, "afw", "1.2.3", true)
	require.NoError(t, err)
	assert.Len(t, deps, 1)

	v, err := f.TagVersion(ctx, "base", "current")
	require.NoError(t, err)
	assert.Equal(t, "2.0", v)

	_, err = f.ProductDir(ctx, "nosuch", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrProductNotFound))
}
