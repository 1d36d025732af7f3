// Package config loads doxmerge's own configuration: which Doxygen options
// are path-like, which are ignored, which products are known to lack a
// documentation fragment, and the fixed values applied to the merged output.
//
// Configuration is layered: embedded defaults, then an optional
// $XDG_CONFIG_HOME/doxmerge/doxmerge.toml, then an optional doxmerge.toml in
// the working directory. Later layers override earlier ones.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the name of the user configuration file.
const ConfigFileName = "doxmerge.toml"

// Fragments holds fragment discovery settings.
type Fragments struct {
	// SearchPaths are candidate fragment locations relative to a product's
	// installed directory, tried in order.
	SearchPaths []string `koanf:"search_paths"`
}

// Options holds per-option parsing and emission policy.
type Options struct {
	// PathLike lists options whose values are filesystem paths.
	PathLike []string `koanf:"path_like"`
	// Ignored lists options dropped at parse time.
	Ignored []string `koanf:"ignored"`
	// HeadKeys are emitted first, in order, in the merged output.
	HeadKeys []string `koanf:"head_keys"`
}

// Products holds product-level policy.
type Products struct {
	// Ignore lists products skipped without error when they have no fragment.
	Ignore []string `koanf:"ignore"`
	// Required is the product supplying the documentation boilerplate;
	// failing to resolve it is fatal.
	Required string `koanf:"required"`
}

// Rewrite holds path rewriting settings.
type Rewrite struct {
	// Markers are the subdirectory names recognized when re-rooting a
	// build-tree path under the installed directory.
	Markers []string `koanf:"markers"`
}

// Mainpage holds mainpage discovery settings.
type Mainpage struct {
	// Patterns are doublestar patterns matched when scanning INPUT paths.
	Patterns []string `koanf:"patterns"`
}

// Overrides holds the fixed option values applied after merging.
type Overrides struct {
	Always      map[string]string `koanf:"always"`
	DiagramsOn  map[string]string `koanf:"diagrams_on"`
	DiagramsOff map[string]string `koanf:"diagrams_off"`
}

// Config is the root configuration structure for doxmerge.
type Config struct {
	Fragments Fragments `koanf:"fragments"`
	Options   Options   `koanf:"options"`
	Products  Products  `koanf:"products"`
	Rewrite   Rewrite   `koanf:"rewrite"`
	Mainpage  Mainpage  `koanf:"mainpage"`
	Overrides Overrides `koanf:"overrides"`
}

// IsPathLike reports whether the given option receives path treatment.
func (c *Config) IsPathLike(option string) bool {
	for _, o := range c.Options.PathLike {
		if o == option {
			return true
		}
	}
	return false
}

// IsIgnoredOption reports whether the option is dropped at parse time.
func (c *Config) IsIgnoredOption(option string) bool {
	for _, o := range c.Options.Ignored {
		if o == option {
			return true
		}
	}
	return false
}

// IsIgnoredProduct reports whether the product may be skipped without error.
func (c *Config) IsIgnoredProduct(product string) bool {
	for _, p := range c.Products.Ignore {
		if p == product {
			return true
		}
	}
	return false
}

// Load builds the configuration from the embedded defaults plus any user
// configuration files found in the standard locations.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	userConfig := filepath.Join(xdg.ConfigHome, "doxmerge", ConfigFileName)
	for _, path := range []string{userConfig, ConfigFileName} {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	return unmarshal(k)
}

// Default returns the embedded default configuration without consulting
// any user configuration files.
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
