package dewey

import (
	"strings"

	"github.com/deweycatalog/catalog/shared/apperr"
)

// SearchField is the closed set of entry fields that can be searched.
type SearchField string

const (
	SearchTitle       SearchField = "title"
	SearchDescription SearchField = "description"
)

// ParseSearchField rejects anything outside the closed enum so the value can
// safely select a column.
func ParseSearchField(s string) (SearchField, error) {
	switch f := SearchField(strings.ToLower(strings.TrimSpace(s))); f {
	case SearchTitle, SearchDescription:
		return f, nil
	}
	return "", apperr.Validation("Invalid search type %q: must be title or description", s)
}

// Search relevance tiers, lower is better.
const (
	RankExact = iota + 1
	RankWholeWord
	RankPrefix
	RankSuffix
	RankOther
)

// SearchRank scores how well value matches term, case-insensitively. A whole
// word match requires a space on both sides of the term, so a term at the very
// start or end of the value falls through to the prefix or suffix tier.
func SearchRank(value, term string) int {
	v, t := strings.ToLower(value), strings.ToLower(term)
	switch {
	case v == t:
		return RankExact
	case strings.Contains(v, " "+t+" "):
		return RankWholeWord
	case strings.HasPrefix(v, t):
		return RankPrefix
	case strings.HasSuffix(v, t):
		return RankSuffix
	}
	return RankOther
}

// Matches reports whether value contains term, case-insensitively.
func Matches(value, term string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

// Sibling levels used by the related-categories lookup.
const (
	SiblingClass   = 1
	SiblingDecimal = 2
)

// SiblingBase returns the prefix shared by c and its siblings together with
// the sibling level: a class drops its last digit ("629" -> "62", level 1), a
// decimal number drops its last character ("629.15" -> "629.1", level 2).
func SiblingBase(c Code) (string, int) {
	if c.IsClass() {
		return c.raw[:classWidth-1], SiblingClass
	}
	return c.raw[:len(c.raw)-1], SiblingDecimal
}

// ValidateSiblingBase checks that base is a prefix SiblingBase could have
// produced for the given level.
func ValidateSiblingBase(base string, level int) error {
	switch level {
	case SiblingClass:
		if len(base) != classWidth-1 || !allDigits(base) {
			return apperr.Validation("Invalid base number %q for level 1: expected 2 digits", base)
		}
		return nil
	case SiblingDecimal:
		if len(base) <= classWidth || base[classWidth] != '.' {
			return apperr.Validation("Invalid base number %q for level 2: expected a class followed by a point", base)
		}
		if _, err := Parse(strings.TrimSuffix(base, ".")); err != nil {
			return apperr.Validation("Invalid base number %q for level 2", base)
		}
		return nil
	}
	return apperr.Validation("Invalid level %d: must be 1 or 2", level)
}
