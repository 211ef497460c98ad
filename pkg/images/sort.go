package images

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale is the collation locale used when none is configured.
var DefaultLocale = language.English

type sortConfig struct {
	locale  language.Tag
	numeric bool
}

// SortOption configures collation.
type SortOption func(*sortConfig)

// WithLocale sorts with the collation rules of tag.
func WithLocale(tag language.Tag) SortOption {
	return func(c *sortConfig) {
		c.locale = tag
	}
}

// WithNumeric orders runs of digits by numeric value, so "img2" sorts before "img10".
func WithNumeric() SortOption {
	return func(c *sortConfig) {
		c.numeric = true
	}
}

// Sort orders names in place using locale-aware collation.
// Names the collator considers equal fall back to byte order, so the result
// never depends on the input order.
func Sort(names []string, opts ...SortOption) {
	cfg := sortConfig{locale: DefaultLocale}
	for _, opt := range opts {
		opt(&cfg)
	}

	var collateOpts []collate.Option
	if cfg.numeric {
		collateOpts = append(collateOpts, collate.Numeric)
	}
	// A Collator keeps internal buffers and is not safe for concurrent use.
	c := collate.New(cfg.locale, collateOpts...)

	slices.SortFunc(names, func(a, b string) int {
		if r := c.CompareString(a, b); r != 0 {
			return r
		}
		return strings.Compare(a, b)
	})
}

// ParseLocale parses a BCP 47 tag, falling back to DefaultLocale.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLocale
	}
	return tag
}
