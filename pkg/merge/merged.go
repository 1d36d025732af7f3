// Package merge drives the consolidation of per-product Doxygen fragments
// into a single configuration: closure iteration, per-option set union,
// boolean collapsing, fixed overrides and ordered emission.
package merge

import (
	"strings"

	"github.com/arthur-debert/doxmerge/pkg/doxyfile"
)

// Merged accumulates option values across fragments. Values are deduplicated
// per option; first-seen order is preserved for both keys and values.
type Merged struct {
	keys   []string
	values map[string][]string
	seen   map[string]map[string]bool
}

// NewMerged returns an empty merged configuration.
func NewMerged() *Merged {
	return &Merged{
		values: make(map[string][]string),
		seen:   make(map[string]map[string]bool),
	}
}

// Add unions values into an option.
func (m *Merged) Add(key string, vals []string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
		m.values[key] = nil
		m.seen[key] = make(map[string]bool)
	}
	for _, v := range vals {
		if m.seen[key][v] {
			continue
		}
		m.seen[key][v] = true
		m.values[key] = append(m.values[key], v)
	}
}

// Union folds an entire fragment into the merged set.
func (m *Merged) Union(frag *doxyfile.Fragment) {
	for _, key := range frag.Keys() {
		m.Add(key, frag.Get(key))
	}
}

// Set replaces an option's values outright. Used for overrides.
func (m *Merged) Set(key string, vals ...string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append([]string(nil), vals...)
	m.seen[key] = make(map[string]bool)
	for _, v := range vals {
		m.seen[key][v] = true
	}
}

// Get returns an option's values, or nil when absent.
func (m *Merged) Get(key string) []string {
	return m.values[key]
}

// Has reports whether the option is present.
func (m *Merged) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the option names in first-seen order.
func (m *Merged) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// CollapseBooleans resolves options where fragments disagree on a boolean:
// when both an affirmative and a negative form are present, the option
// collapses to YES. A product asking for a feature wins over one that does
// not care.
func (m *Merged) CollapseBooleans() {
	for key, vals := range m.values {
		if len(vals) < 2 {
			continue
		}
		yes, no := false, false
		boolish := true
		for _, v := range vals {
			switch strings.ToUpper(v) {
			case "YES":
				yes = true
			case "NO":
				no = true
			default:
				boolish = false
			}
		}
		if boolish && yes && no {
			m.Set(key, "YES")
		}
	}
}
