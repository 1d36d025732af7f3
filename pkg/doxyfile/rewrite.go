package doxyfile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/doxmerge/pkg/logging"
)

// Rewriter re-roots build-tree paths under a product's installed directory.
// Fragments are written against the build tree (../include, src/...); by the
// time doxmerge runs, only the installed tree exists.
type Rewriter struct {
	// ProductDir is the product's installed directory.
	ProductDir string
	// Markers are subdirectory names that anchor a path when re-rooting.
	Markers []string

	// stat is swappable for tests.
	stat func(string) (os.FileInfo, error)
}

// NewRewriter returns a Rewriter for the given installed directory.
func NewRewriter(productDir string, markers []string) *Rewriter {
	return &Rewriter{
		ProductDir: productDir,
		Markers:    markers,
		stat:       os.Stat,
	}
}

func (r *Rewriter) exists(path string) bool {
	_, err := r.stat(path)
	return err == nil
}

// Rewrite maps one path from build-tree to installed-tree form. The second
// return is false when no existing location could be found; such entries are
// dropped from the merge (best effort, not a validator).
//
// Rewriting is idempotent: a path already under the installed directory
// comes back unchanged.
func (r *Rewriter) Rewrite(path string) (string, bool) {
	clean := filepath.Clean(path)

	// Already installed form.
	if strings.HasPrefix(clean, r.ProductDir+string(filepath.Separator)) || clean == r.ProductDir {
		if r.exists(clean) {
			return clean, true
		}
		return "", false
	}

	// Re-root at the last recognized marker segment.
	segs := strings.Split(clean, string(filepath.Separator))
	for i := len(segs) - 1; i >= 0; i-- {
		if !r.isMarker(segs[i]) {
			continue
		}
		cand := filepath.Join(append([]string{r.ProductDir}, segs[i:]...)...)
		if r.exists(cand) {
			return cand, true
		}
	}

	// No marker matched: try the path as a child of the installed
	// directory, then as-is.
	if !filepath.IsAbs(clean) {
		if cand := filepath.Join(r.ProductDir, clean); r.exists(cand) {
			return cand, true
		}
	}
	if r.exists(clean) {
		return clean, true
	}
	return "", false
}

func (r *Rewriter) isMarker(seg string) bool {
	for _, m := range r.Markers {
		if m == seg {
			return true
		}
	}
	return false
}

// RewriteFragment rewrites every value of the given path-like options in
// place. Entries with no existing location are silently dropped.
func (r *Rewriter) RewriteFragment(frag *Fragment, pathLike []string) {
	logger := logging.GetLogger("doxyfile.rewrite")

	for _, key := range pathLike {
		if !frag.Has(key) {
			continue
		}
		var kept []string
		for _, v := range frag.Get(key) {
			rewritten, ok := r.Rewrite(v)
			if !ok {
				logger.Debug().
					Str("product", frag.Product).
					Str("option", key).
					Str("path", v).
					Msg("Dropping path with no installed location")
				continue
			}
			kept = append(kept, rewritten)
		}
		frag.Set(key, kept)
	}
}
