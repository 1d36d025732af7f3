// Package mainpage discovers documentation mainpage markers across fragment
// input trees and demotes all but one of them to named sub-pages. Doxygen
// accepts exactly one \mainpage per build; when many products declare their
// own, the first product's wins and the rest become \page entries keyed by
// product name.
package mainpage

import (
	"crypto/sha1"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/arthur-debert/doxmerge/pkg/doxyfile"
	"github.com/arthur-debert/doxmerge/pkg/errors"
	"github.com/arthur-debert/doxmerge/pkg/logging"
	"github.com/bmatcuk/doublestar/v4"
)

// markerRe matches the Doxygen mainpage marker in either escape style.
var markerRe = regexp.MustCompile(`[\\@]mainpage\b`)

// Rewriter scans fragments for mainpage markers and demotes duplicates.
type Rewriter struct {
	// Patterns are doublestar patterns selecting scannable files under
	// INPUT directories.
	Patterns []string
	// TempDir receives the rewritten copies.
	TempDir string
}

// NewRewriter returns a Rewriter writing copies into tempDir.
func NewRewriter(patterns []string, tempDir string) *Rewriter {
	return &Rewriter{Patterns: patterns, TempDir: tempDir}
}

// Apply scans one fragment's INPUT paths. When haveCanonical is false the
// first marker file found keeps its mainpage role and Apply returns true;
// every other marker file is excluded from the input set and replaced by a
// rewritten copy.
func (r *Rewriter) Apply(frag *doxyfile.Fragment, haveCanonical bool) (bool, error) {
	logger := logging.GetLogger("mainpage")

	found, err := r.Discover(frag)
	if err != nil {
		return false, err
	}

	claimed := false
	for _, path := range found {
		if !haveCanonical && !claimed {
			claimed = true
			logger.Info().
				Str("product", frag.Product).
				Str("path", path).
				Msg("Selected canonical mainpage")
			continue
		}

		copyPath, err := r.Demote(frag.Product, path)
		if err != nil {
			return claimed, err
		}
		logger.Debug().
			Str("product", frag.Product).
			Str("path", path).
			Str("copy", copyPath).
			Msg("Demoted mainpage to sub-page")

		excludeOriginal(frag, path)
		frag.Append("INPUT", []string{copyPath})
	}

	return claimed, nil
}

// Discover returns the files under the fragment's INPUT paths that carry a
// mainpage marker, in deterministic (sorted per input root) order. A
// fragment declaring its own FILE_PATTERNS narrows the scan to those.
func (r *Rewriter) Discover(frag *doxyfile.Fragment) ([]string, error) {
	patterns := r.Patterns
	if declared := frag.Get("FILE_PATTERNS"); len(declared) > 0 {
		patterns = make([]string, len(declared))
		for i, p := range declared {
			patterns[i] = "**/" + p
		}
	}

	var found []string
	seen := make(map[string]bool)

	for _, input := range frag.Get("INPUT") {
		info, err := os.Stat(input)
		if err != nil {
			// Entries are post-rewrite, so this is unexpected, but the
			// merge stays best effort.
			continue
		}

		if !info.IsDir() {
			if !seen[input] && hasMarker(input) {
				seen[input] = true
				found = append(found, input)
			}
			continue
		}

		var candidates []string
		walkErr := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(input, path)
			if err != nil {
				return nil
			}
			if matchesAny(patterns, filepath.ToSlash(rel)) {
				candidates = append(candidates, path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, errors.Wrapf(walkErr, errors.ErrFileAccess, "scanning %s", input)
		}

		sort.Strings(candidates)
		for _, path := range candidates {
			if !seen[path] && hasMarker(path) {
				seen[path] = true
				found = append(found, path)
			}
		}
	}

	return found, nil
}

// Demote copies path into the temp dir under a content-hash-derived name,
// rewriting its marker into a named sub-page for product. The hash bounds
// the filename length regardless of how deep the source path is.
func (r *Rewriter) Demote(product, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrMainpageRewrite, "reading %s", path)
	}

	rewritten := markerRe.ReplaceAll(content, []byte(`\page `+product+` `+product))

	name := fmt.Sprintf("%x%s", sha1.Sum([]byte(path)), filepath.Ext(path))
	copyPath := filepath.Join(r.TempDir, name)
	if err := os.MkdirAll(r.TempDir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "creating %s", r.TempDir)
	}
	if err := os.WriteFile(copyPath, rewritten, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "writing %s", copyPath)
	}
	return copyPath, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// excludeOriginal removes the demoted file from the input set: dropped from
// INPUT when listed directly, added to EXCLUDE when reached through a
// directory entry.
func excludeOriginal(frag *doxyfile.Fragment, path string) {
	inputs := frag.Get("INPUT")
	var kept []string
	direct := false
	for _, in := range inputs {
		if in == path {
			direct = true
			continue
		}
		kept = append(kept, in)
	}
	if direct {
		frag.Set("INPUT", kept)
		return
	}
	frag.Append("EXCLUDE", []string{path})
}

func hasMarker(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return markerRe.Match(content)
}
