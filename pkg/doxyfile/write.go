package doxyfile

import (
	"fmt"
	"io"
	"strings"
)

// QuoteValue wraps a value in double quotes when it contains whitespace or
// quoting characters, so it survives a round-trip through the parser.
func QuoteValue(v string) string {
	if v == "" {
		return `""`
	}
	if strings.ContainsAny(v, " \t\"") {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}

// WriteOption emits one KEY = v1 v2 ... line.
func WriteOption(w io.Writer, key string, values []string) error {
	if len(values) == 0 {
		_, err := fmt.Fprintf(w, "%-22s =\n", key)
		return err
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = QuoteValue(v)
	}
	_, err := fmt.Fprintf(w, "%-22s = %s\n", key, strings.Join(quoted, " "))
	return err
}

// WriteAppend emits one KEY += v line. Used for options Doxygen handles
// better one directive at a time.
func WriteAppend(w io.Writer, key, value string) error {
	_, err := fmt.Fprintf(w, "%-21s += %s\n", key, QuoteValue(value))
	return err
}
