package eups

import (
	"context"

	"github.com/arthur-debert/doxmerge/pkg/errors"
)

// Fake is an in-memory Database used by tests and by callers that want to
// drive a merge from a prepared product table.
type Fake struct {
	// Dirs maps "name/version" (or bare "name") to an installed directory.
	Dirs map[string]string
	// Deps maps "name/version" (or bare "name") to a dependency closure.
	Deps map[string][]Product
	// Tags maps "name/tag" to a version.
	Tags map[string]string
}

// NewFake returns an empty Fake ready for population.
func NewFake() *Fake {
	return &Fake{
		Dirs: make(map[string]string),
		Deps: make(map[string][]Product),
		Tags: make(map[string]string),
	}
}

// AddProduct registers an installed product directory.
func (f *Fake) AddProduct(name, version, dir string) {
	f.Dirs[key(name, version)] = dir
	if version != "" {
		f.Dirs[name] = dir
	}
}

// AddDeps registers the dependency closure of a product.
func (f *Fake) AddDeps(name, version string, deps ...Product) {
	f.Deps[key(name, version)] = deps
	if version != "" {
		f.Deps[name] = deps
	}
}

// AddTag registers a tagged version of a product.
func (f *Fake) AddTag(name, tag, version string) {
	f.Tags[name+"/"+tag] = version
}

func key(name, version string) string {
	if version == "" {
		return name
	}
	return name + "/" + version
}

// ProductDir implements Database.
func (f *Fake) ProductDir(ctx context.Context, product, version string) (string, error) {
	if dir, ok := f.Dirs[key(product, version)]; ok {
		return dir, nil
	}
	return "", errors.Newf(errors.ErrProductNotFound,
		"no installed directory for %s %s", product, version)
}

// Dependencies implements Database.
func (f *Fake) Dependencies(ctx context.Context, product, version string, exact bool) ([]Product, error) {
	if deps, ok := f.Deps[key(product, version)]; ok {
		return deps, nil
	}
	if _, ok := f.Dirs[key(product, version)]; ok {
		return nil, nil
	}
	return nil, errors.Newf(errors.ErrProductNotFound, "unknown product %s %s", product, version)
}

// TagVersion implements Database.
func (f *Fake) TagVersion(ctx context.Context, product, tag string) (string, error) {
	if v, ok := f.Tags[product+"/"+tag]; ok {
		return v, nil
	}
	return "", errors.Newf(errors.ErrProductNotFound, "no version of %s tagged %s", product, tag)
}
