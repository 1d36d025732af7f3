// Package doxyfile parses and serializes the Doxygen configuration dialect:
// line-oriented KEY = value pairs with # comments, backslash continuations,
// and += appends. Path-like options get shell-quoted token splitting and
// build-tree to installed-tree rewriting.
package doxyfile

// Fragment is one product's parsed Doxygen configuration. Keys keep their
// first-seen order; values keep their declaration order.
type Fragment struct {
	// Source is the file the fragment was parsed from.
	Source string
	// Product is the owning product's name.
	Product string

	keys   []string
	values map[string][]string
}

// NewFragment returns an empty fragment.
func NewFragment(product, source string) *Fragment {
	return &Fragment{
		Product: product,
		Source:  source,
		values:  make(map[string][]string),
	}
}

// Keys returns the option names in first-seen order.
func (f *Fragment) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Has reports whether the option is present.
func (f *Fragment) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Get returns the values of an option, or nil if absent.
func (f *Fragment) Get(key string) []string {
	return f.values[key]
}

// First returns the first value of an option, or "" if absent.
func (f *Fragment) First(key string) string {
	if vals := f.values[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Set replaces the values of an option (the = form).
func (f *Fragment) Set(key string, vals []string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = append([]string(nil), vals...)
}

// Append adds values to an option (the += form).
func (f *Fragment) Append(key string, vals []string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = append(f.values[key], vals...)
}

// Len returns the number of options in the fragment.
func (f *Fragment) Len() int {
	return len(f.keys)
}
