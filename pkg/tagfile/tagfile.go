// Package tagfile inspects Doxygen tag files. A TAGFILES entry pointing at a
// missing or malformed tag file makes the whole Doxygen run fail late, so
// entries are vetted here before they reach the merged configuration.
package tagfile

import (
	"strings"

	"github.com/arthur-debert/doxmerge/pkg/errors"
	"github.com/arthur-debert/doxmerge/pkg/logging"
	"github.com/beevik/etree"
)

// Validate checks that path is a well-formed Doxygen tag file: parseable
// XML whose root element is <tagfile>.
func Validate(path string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return errors.Wrapf(err, errors.ErrTagfileInvalid, "cannot read tag file %s", path)
	}

	root := doc.Root()
	if root == nil || root.Tag != "tagfile" {
		return errors.Newf(errors.ErrTagfileInvalid, "%s is not a Doxygen tag file", path)
	}
	return nil
}

// Filter keeps only the TAGFILES entries whose tag file validates. Entries
// have the form "file.tag" or "file.tag=location"; only the file part is
// checked. Invalid entries are dropped with a warning.
func Filter(entries []string) []string {
	logger := logging.GetLogger("tagfile")

	var kept []string
	for _, entry := range entries {
		path := entry
		if idx := strings.Index(entry, "="); idx >= 0 {
			path = entry[:idx]
		}
		if err := Validate(path); err != nil {
			logger.Warn().Err(err).Str("entry", entry).Msg("Dropping invalid TAGFILES entry")
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
