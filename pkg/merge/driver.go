package merge

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/doxmerge/pkg/config"
	"github.com/arthur-debert/doxmerge/pkg/doxyfile"
	"github.com/arthur-debert/doxmerge/pkg/errors"
	"github.com/arthur-debert/doxmerge/pkg/eups"
	"github.com/arthur-debert/doxmerge/pkg/logging"
	"github.com/arthur-debert/doxmerge/pkg/mainpage"
	"github.com/arthur-debert/doxmerge/pkg/tagfile"
)

// Options selects what to merge and how the output is shaped.
type Options struct {
	// Product is the primary product name.
	Product string
	// Version pins the primary product; empty means whichever is set up.
	Version string
	// Tag switches dependency resolution from the exact as-installed
	// closure to the versions carrying this tag ("current" by convention).
	Tag string
	// Diagrams toggles the dot-based diagram option block.
	Diagrams bool
	// OutputDir becomes OUTPUT_DIRECTORY.
	OutputDir string
	// HTMLDir becomes HTML_OUTPUT.
	HTMLDir string
	// LaTeXDir becomes LATEX_OUTPUT.
	LaTeXDir string
	// ProjectName overrides PROJECT_NAME; defaults to the product name.
	ProjectName string
	// IgnoreProducts replaces the configured ignore list when non-nil.
	IgnoreProducts []string
	// TempDir receives rewritten mainpage copies. A process-local
	// directory is created when empty.
	TempDir string
}

// Driver merges the fragments of a product closure.
type Driver struct {
	db  eups.Database
	cfg *config.Config
}

// New returns a Driver over the given product database.
func New(db eups.Database, cfg *config.Config) *Driver {
	return &Driver{db: db, cfg: cfg}
}

// Run resolves the product closure, merges every fragment and writes the
// consolidated configuration to w.
func (d *Driver) Run(ctx context.Context, opts Options, w io.Writer) error {
	logger := logging.GetLogger("merge")

	version := opts.Version
	if version == "" && opts.Tag != "" {
		v, err := d.db.TagVersion(ctx, opts.Product, opts.Tag)
		if err != nil {
			return err
		}
		version = v
	}

	if _, err := d.db.ProductDir(ctx, opts.Product, version); err != nil {
		return errors.Wrapf(err, errors.ErrProductNotFound,
			"cannot resolve primary product %s %s", opts.Product, version)
	}

	products, err := d.closure(ctx, opts, version)
	if err != nil {
		return err
	}
	logger.Info().
		Str("product", opts.Product).
		Str("version", version).
		Int("products", len(products)).
		Msg("Merging fragments")

	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir, err = os.MkdirTemp("", "doxmerge-")
		if err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "creating temp directory")
		}
	}
	pages := mainpage.NewRewriter(d.cfg.Mainpage.Patterns, tempDir)

	merged := NewMerged()
	haveCanonical := false
	requiredSeen := false

	for _, p := range products {
		frag, err := d.fragment(ctx, p, opts.Tag)
		if err != nil {
			if p.Name == d.cfg.Products.Required {
				return errors.Wrapf(err, errors.ErrProductRequired,
					"required product %s has no usable fragment", p.Name)
			}
			logger.Warn().Err(err).Str("product", p.Name).Msg("Skipping product")
			continue
		}
		if frag == nil {
			continue
		}
		if p.Name == d.cfg.Products.Required {
			requiredSeen = true
		}

		claimed, err := pages.Apply(frag, haveCanonical)
		if err != nil {
			logger.Warn().Err(err).Str("product", p.Name).Msg("Mainpage rewriting failed")
		}
		haveCanonical = haveCanonical || claimed

		merged.Union(frag)
	}

	if !requiredSeen {
		return errors.Newf(errors.ErrProductRequired,
			"required product %s not present in the closure of %s",
			d.cfg.Products.Required, opts.Product)
	}

	if merged.Has("TAGFILES") {
		merged.Set("TAGFILES", tagfile.Filter(merged.Get("TAGFILES"))...)
	}

	merged.CollapseBooleans()
	d.applyOverrides(merged, opts, version)

	return d.emit(merged, w)
}

// closure returns the primary product plus its transitive dependencies,
// minus the ignore list.
func (d *Driver) closure(ctx context.Context, opts Options, version string) ([]eups.Product, error) {
	deps, err := d.db.Dependencies(ctx, opts.Product, version, opts.Tag == "")
	if err != nil {
		return nil, err
	}

	ignore := d.cfg.Products.Ignore
	if opts.IgnoreProducts != nil {
		ignore = opts.IgnoreProducts
	}
	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}

	products := make([]eups.Product, 0, len(deps)+1)
	products = append(products, eups.Product{Name: opts.Product, Version: version})
	for _, dep := range deps {
		if ignored[dep.Name] {
			continue
		}
		products = append(products, dep)
	}
	return products, nil
}

// fragment locates, parses and path-rewrites one product's fragment.
// A nil fragment with nil error means the product has nothing to contribute.
func (d *Driver) fragment(ctx context.Context, p eups.Product, tag string) (*doxyfile.Fragment, error) {
	logger := logging.GetLogger("merge")

	version := p.Version
	if tag != "" {
		if v, err := d.db.TagVersion(ctx, p.Name, tag); err == nil {
			version = v
		}
	}

	dir, err := d.db.ProductDir(ctx, p.Name, version)
	if err != nil {
		return nil, err
	}

	prodCfg, err := config.LoadProductConfig(dir)
	if err != nil {
		logger.Warn().Err(err).Str("product", p.Name).Msg("Unreadable product config, using defaults")
	}
	if prodCfg.Skip {
		logger.Debug().Str("product", p.Name).Msg("Product declares itself documentation-free")
		return nil, nil
	}

	searchPaths := d.cfg.Fragments.SearchPaths
	if prodCfg.Fragment != "" {
		searchPaths = []string{prodCfg.Fragment}
	}

	var source string
	for _, rel := range searchPaths {
		cand := filepath.Join(dir, rel)
		if _, err := os.Stat(cand); err == nil {
			source = cand
			break
		}
	}
	if source == "" {
		return nil, errors.Newf(errors.ErrFragmentMissing,
			"no doxygen fragment under %s", dir)
	}

	policy := doxyfile.Policy{
		PathLike: d.cfg.Options.PathLike,
		Ignored:  d.cfg.Options.Ignored,
	}
	frag, err := doxyfile.ParseFile(p.Name, source, policy)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("product", p.Name).
		Str("source", source).
		Int("options", frag.Len()).
		Msg("Parsed fragment")

	rewriter := doxyfile.NewRewriter(dir, d.cfg.Rewrite.Markers)
	rewriter.RewriteFragment(frag, d.cfg.Options.PathLike)
	return frag, nil
}

// applyOverrides imposes the fixed post-merge option values.
func (d *Driver) applyOverrides(merged *Merged, opts Options, version string) {
	for _, key := range sortedKeys(d.cfg.Overrides.Always) {
		merged.Set(key, d.cfg.Overrides.Always[key])
	}

	diagrams := d.cfg.Overrides.DiagramsOff
	if opts.Diagrams {
		diagrams = d.cfg.Overrides.DiagramsOn
	}
	for _, key := range sortedKeys(diagrams) {
		merged.Set(key, diagrams[key])
	}

	name := opts.ProjectName
	if name == "" {
		name = opts.Product
	}
	merged.Set("PROJECT_NAME", name)
	if version != "" {
		merged.Set("PROJECT_NUMBER", version)
	}
	if opts.OutputDir != "" {
		merged.Set("OUTPUT_DIRECTORY", opts.OutputDir)
	}
	if opts.HTMLDir != "" {
		merged.Set("HTML_OUTPUT", opts.HTMLDir)
	}
	if opts.LaTeXDir != "" {
		merged.Set("LATEX_OUTPUT", opts.LaTeXDir)
	}
}

// sortedKeys returns an override table's keys in deterministic order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// emit writes the merged configuration: head keys first in configured order,
// remaining keys sorted, INPUT last as one += directive per path. Doxygen
// reads INPUT more reliably that way once the list grows long.
func (d *Driver) emit(merged *Merged, w io.Writer) error {
	written := make(map[string]bool)

	for _, key := range d.cfg.Options.HeadKeys {
		if !merged.Has(key) || key == "INPUT" {
			continue
		}
		if err := doxyfile.WriteOption(w, key, merged.Get(key)); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "writing merged config")
		}
		written[key] = true
	}

	rest := make([]string, 0, len(merged.Keys()))
	for _, key := range merged.Keys() {
		if written[key] || key == "INPUT" {
			continue
		}
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		if err := doxyfile.WriteOption(w, key, merged.Get(key)); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "writing merged config")
		}
	}

	if merged.Has("INPUT") {
		if err := doxyfile.WriteOption(w, "INPUT", nil); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "writing merged config")
		}
		for _, path := range merged.Get("INPUT") {
			if err := doxyfile.WriteAppend(w, "INPUT", path); err != nil {
				return errors.Wrap(err, errors.ErrFileWrite, "writing merged config")
			}
		}
	}
	return nil
}
