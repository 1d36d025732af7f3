package doxyfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/doxmerge/pkg/errors"
	"github.com/arthur-debert/doxmerge/pkg/logging"
	"mvdan.cc/sh/v3/shell"
)

// Policy controls how options are treated during parsing.
type Policy struct {
	// PathLike options are split with shell quoting rules.
	PathLike []string
	// Ignored options are dropped.
	Ignored []string
}

func (p Policy) isPathLike(key string) bool {
	for _, k := range p.PathLike {
		if k == key {
			return true
		}
	}
	return false
}

func (p Policy) isIgnored(key string) bool {
	for _, k := range p.Ignored {
		if k == key {
			return true
		}
	}
	return false
}

// ParseFile parses the fragment at path for the given product.
func ParseFile(product, path string, policy Policy) (*Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot open fragment %s", path)
	}
	defer func() { _ = f.Close() }()

	frag, err := Parse(f, policy)
	if err != nil {
		return nil, err
	}
	frag.Product = product
	frag.Source = path
	return frag, nil
}

// Parse reads a fragment from r.
func Parse(r io.Reader, policy Policy) (*Fragment, error) {
	logger := logging.GetLogger("doxyfile.parse")
	frag := NewFragment("", "")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Join backslash continuations into one logical line. Comment and
		// blank lines inside a continuation are skipped, not spliced in.
		for strings.HasSuffix(line, "\\") && scanner.Scan() {
			next := strings.TrimSpace(scanner.Text())
			if next == "" || strings.HasPrefix(next, "#") {
				continue
			}
			line = strings.TrimSpace(strings.TrimSuffix(line, "\\"))
			line = strings.TrimSpace(line + " " + next)
		}

		key, value, appendOp, ok := splitOption(line)
		if !ok {
			logger.Debug().Str("line", line).Msg("Skipping unrecognized line")
			continue
		}
		if policy.isIgnored(key) {
			logger.Debug().Str("option", key).Msg("Dropping ignored option")
			continue
		}

		tokens, err := splitValue(key, value, policy)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"cannot tokenize value of %s", key)
		}

		if appendOp {
			frag.Append(key, tokens)
		} else {
			frag.Set(key, tokens)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "reading fragment")
	}

	return frag, nil
}

// splitOption breaks a logical line into key, raw value and operator form.
// Keys are Doxygen option names: upper-case with underscores, or the special
// @INCLUDE family.
func splitOption(line string) (key, value string, appendOp, ok bool) {
	eq := strings.Index(line, "=")
	if eq <= 0 {
		return "", "", false, false
	}

	key = strings.TrimSpace(line[:eq])
	value = strings.TrimSpace(line[eq+1:])
	if strings.HasSuffix(key, "+") {
		key = strings.TrimSpace(strings.TrimSuffix(key, "+"))
		appendOp = true
	}
	if !validKey(key) {
		return "", "", false, false
	}
	return key, value, appendOp, true
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		case r == '@' && i == 0:
		default:
			return false
		}
	}
	return true
}

// splitValue tokenizes the raw value. Path-like options honor shell quoting
// so that "c d" stays one token; everything else splits on whitespace.
func splitValue(key, value string, policy Policy) ([]string, error) {
	if value == "" {
		return nil, nil
	}
	if policy.isPathLike(key) {
		return shell.Fields(value, func(string) string { return "" })
	}
	return strings.Fields(value), nil
}
