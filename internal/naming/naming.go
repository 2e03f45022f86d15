// Package naming derives short descriptor names from table identifiers.
package naming

import "strings"

// DefaultSuffixes are the projection tags stripped from table names, in
// the order they are applied.
var DefaultSuffixes = []string{"_eureffin", "_wgs84", "_ykj", "_fmi20"}

// Normalizer strips an ordered list of suffix tokens from table names.
type Normalizer struct {
	suffixes []string
}

// New creates a Normalizer for the given suffixes.
// An empty list falls back to DefaultSuffixes.
func New(suffixes []string) *Normalizer {
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes
	}
	cp := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		if s == "" {
			continue
		}
		cp = append(cp, s)
	}
	return &Normalizer{suffixes: cp}
}

// Suffixes returns a copy of the configured suffix list.
func (n *Normalizer) Suffixes() []string {
	return append([]string(nil), n.suffixes...)
}

// ShortName removes every occurrence of each suffix from table.
// Tokens are removed wherever they appear, not only at the end.
func (n *Normalizer) ShortName(table string) string {
	name := table
	for _, s := range n.suffixes {
		name = strings.ReplaceAll(name, s, "")
	}
	return name
}

var defaultNormalizer = New(nil)

// StripSuffixes applies DefaultSuffixes to table.
func StripSuffixes(table string) string {
	return defaultNormalizer.ShortName(table)
}
