package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// ProductConfigFile is the per-product settings file, relative to the
// product's installed directory.
const ProductConfigFile = "ups/doxmerge.toml"

// ProductConfig lets a product adjust how its fragment is handled.
type ProductConfig struct {
	// Skip declares the product documentation-free: it is dropped from the
	// merge without a warning, as if it were on the ignore list.
	Skip bool `toml:"skip"`
	// Fragment points at the product's fragment, relative to the installed
	// directory, overriding the configured search paths.
	Fragment string `toml:"fragment"`
}

// LoadProductConfig reads a product's doxmerge.toml from its installed
// directory. A missing file yields the zero configuration.
func LoadProductConfig(productDir string) (ProductConfig, error) {
	var cfg ProductConfig

	path := filepath.Join(productDir, filepath.FromSlash(ProductConfigFile))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
