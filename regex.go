package bson

import "sort"

// Regex is a BSON regular expression: a pattern and a set of single-
// character option flags (spec §3). Options are stored sorted so that
// equality and canonical ExtJSON rendering are stable regardless of the
// order flags were supplied in (spec §9 "Regex flags").
type Regex struct {
	Pattern string
	Options string
}

// NewRegex constructs a Regex with its options canonicalized (sorted).
// Unknown flag characters are preserved, not validated, matching spec
// §4.2's decode behavior for regex options.
func NewRegex(pattern, options string) Regex {
	return Regex{Pattern: pattern, Options: sortOptions(options)}
}

func sortOptions(options string) string {
	if options == "" {
		return options
	}
	b := []byte(options)
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return string(b)
}
