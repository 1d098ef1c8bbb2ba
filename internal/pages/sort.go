package pages

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder selects how page file names are ordered.
type SortOrder string

const (
	// SortLexical orders names byte by byte: "page10" sorts before "page2".
	SortLexical SortOrder = "lexical"

	// SortNatural compares digit runs by numeric value: "page2" sorts
	// before "page10".
	SortNatural SortOrder = "natural"
)

// ParseSortOrder parses a sort order name. The empty string selects
// SortLexical.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case "", SortLexical:
		return SortLexical, nil
	case SortNatural:
		return SortNatural, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortOrder, s)
	}
}

// Sort orders names in place.
// Names the natural collation considers equal fall back to byte order so
// the result never depends on the input order.
func (o SortOrder) Sort(names []string) error {
	switch o {
	case "", SortLexical:
		slices.Sort(names)
	case SortNatural:
		// Collators are not safe for concurrent use.
		c := collate.New(language.Und, collate.Numeric)
		slices.SortFunc(names, func(a, b string) int {
			if r := c.CompareString(a, b); r != 0 {
				return r
			}
			return strings.Compare(a, b)
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSortOrder, string(o))
	}
	return nil
}
