// Package collate provides locale-aware, case-folded string comparison for
// library ordering, wrapping golang.org/x/text/collate so that accented
// characters sort adjacent to their unaccented forms instead of by raw byte
// value.
package collate

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator wraps a *collate.Collator built once and reused for every
// comparison the library and sorted view perform.
type Collator struct {
	c *collate.Collator
}

// New builds a Collator for lang, case-folded (so "the beatles" and "The
// Beatles" compare equal-ish the way a human alphabetizing a shelf would
// expect). An empty lang falls back to language.Und, which still performs
// Unicode-aware comparison.
func New(lang language.Tag) *Collator {
	return &Collator{c: collate.New(lang, collate.IgnoreCase)}
}

// Default builds a Collator for the undetermined locale, the right choice
// when no user locale preference is configured.
func Default() *Collator {
	return New(language.Und)
}

// Compare returns -1, 0, or 1 as a sorts before, equal to, or after b under
// this collator's locale and case-folding rules.
func (c *Collator) Compare(a, b string) int {
	return c.c.CompareString(a, b)
}

// Less reports whether a sorts strictly before b.
func (c *Collator) Less(a, b string) bool {
	return c.Compare(a, b) < 0
}
