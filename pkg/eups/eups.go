// Package eups queries the EUPS package/version manager for product
// directories and dependency closures. Dependency resolution itself stays in
// EUPS; this package only shells out to the eups binary and parses its
// line-oriented output.
package eups

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/doxmerge/pkg/errors"
	"github.com/arthur-debert/doxmerge/pkg/logging"
)

// Product identifies one installed product.
type Product struct {
	Name    string
	Version string
}

// String returns "name version", or just the name when unversioned.
func (p Product) String() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + " " + p.Version
}

// Database answers the three questions doxmerge has for the package manager.
type Database interface {
	// ProductDir returns the installed directory of a product. Version may
	// be empty, meaning whichever version is set up.
	ProductDir(ctx context.Context, product, version string) (string, error)

	// Dependencies returns the transitive dependency closure of a product.
	// With exact set, the as-installed closure is used; otherwise versions
	// are resolved through the given tag ("current" by convention).
	Dependencies(ctx context.Context, product, version string, exact bool) ([]Product, error)

	// TagVersion returns the version of a product carrying the given tag.
	TagVersion(ctx context.Context, product, tag string) (string, error)
}

// CLI implements Database by invoking the eups executable.
type CLI struct {
	// Binary is the eups executable name or path. Defaults to "eups".
	Binary string
}

// NewCLI returns a Database backed by the eups executable.
func NewCLI() *CLI {
	return &CLI{Binary: "eups"}
}

func (c *CLI) binary() string {
	if c.Binary == "" {
		return "eups"
	}
	return c.Binary
}

func (c *CLI) run(ctx context.Context, args ...string) ([]string, error) {
	logger := logging.GetLogger("eups")
	logger.Debug().Strs("args", args).Msg("Invoking eups")

	cmd := exec.CommandContext(ctx, c.binary(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrEupsExec,
			"eups %s failed: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}

	var lines []string
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// ProductDir asks eups for the installed directory of product/version.
func (c *CLI) ProductDir(ctx context.Context, product, version string) (string, error) {
	args := []string{"list", "--directory", product}
	if version != "" {
		args = append(args, version)
	}
	lines, err := c.run(ctx, args...)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", errors.Newf(errors.ErrProductNotFound,
			"no installed directory for %s %s", product, version)
	}
	// eups prints one directory per matching version; the first is the
	// setup/declared one.
	return lines[0], nil
}

// Dependencies returns the transitive dependency closure of product/version.
func (c *CLI) Dependencies(ctx context.Context, product, version string, exact bool) ([]Product, error) {
	args := []string{"list", "--dependencies"}
	if exact {
		args = append(args, "--exact")
	}
	args = append(args, product)
	if version != "" {
		args = append(args, version)
	}
	lines, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var deps []Product
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		dep := Product{Name: fields[0]}
		if len(fields) > 1 {
			dep.Version = fields[1]
		}
		// eups echoes the product itself as the first dependency line
		if dep.Name == product {
			continue
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// TagVersion resolves the version of a product carrying the given tag.
func (c *CLI) TagVersion(ctx context.Context, product, tag string) (string, error) {
	lines, err := c.run(ctx, "list", "--tag", tag, "--version", product)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", errors.Newf(errors.ErrProductNotFound,
			"no version of %s tagged %s", product, tag)
	}
	return strings.Fields(lines[0])[0], nil
}
