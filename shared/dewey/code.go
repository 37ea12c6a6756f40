// Package dewey models Dewey Decimal classification numbers.
//
// A number has a fixed-width three digit class part ("629") optionally
// followed by a point and decimal digits ("629.13"). The hierarchy is never
// stored: a number's parent, siblings and children are derived from its text
// and digit count.
package dewey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deweycatalog/catalog/shared/apperr"
)

const (
	// Bound is the exclusive upper limit of the class part.
	Bound = 1000

	classWidth = 3
)

// Code is a parsed classification number.
type Code struct {
	raw      string
	class    int
	decimals string
}

// Parse validates s and returns the parsed code. Dots inside the decimal part
// ("629.1.5") are accepted and ignored for digit counting.
func Parse(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if len(s) < classWidth || !allDigits(s[:classWidth]) {
		return Code{}, apperr.Validation("Invalid Dewey number %q: must start with a 3-digit class", s)
	}
	rest := s[classWidth:]
	var decimals strings.Builder
	if rest != "" {
		if rest[0] != '.' {
			return Code{}, apperr.Validation("Invalid Dewey number %q: class part must be exactly 3 digits", s)
		}
		afterDot := true
		for i := 1; i < len(rest); i++ {
			ch := rest[i]
			switch {
			case ch >= '0' && ch <= '9':
				decimals.WriteByte(ch)
				afterDot = false
			case ch == '.' && !afterDot:
				afterDot = true
			default:
				return Code{}, apperr.Validation("Invalid Dewey number %q: unexpected character %q", s, ch)
			}
		}
		if afterDot {
			return Code{}, apperr.Validation("Invalid Dewey number %q: missing digits after the point", s)
		}
	}
	class, _ := strconv.Atoi(s[:classWidth])
	return Code{raw: s, class: class, decimals: decimals.String()}, nil
}

// ParseClass parses a code that must have no decimal part.
func ParseClass(s string) (Code, error) {
	c, err := Parse(s)
	if err != nil {
		return Code{}, err
	}
	if !c.IsClass() {
		return Code{}, apperr.Validation("Invalid Dewey number %q: expected a 3-digit class", s)
	}
	return c, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromClass formats n as a zero-padded three digit class code.
func FromClass(n int) Code {
	return MustParse(Pad(n))
}

// Pad formats n with the class part's fixed width.
func Pad(n int) string {
	return fmt.Sprintf("%03d", n)
}

func (c Code) String() string { return c.raw }

// Class returns the numeric value of the three digit class part.
func (c Code) Class() int { return c.class }

// Decimals returns the digits after the point with any inner dots removed.
func (c Code) Decimals() string { return c.decimals }

// Digits is the significant-digit count of the code.
func (c Code) Digits() int { return classWidth + len(c.decimals) }

// IsClass reports whether the code has no decimal part.
func (c Code) IsClass() bool { return c.decimals == "" }

// IsCentury reports whether c is one of 000, 100, ..., 900.
func (c Code) IsCentury() bool { return c.IsClass() && c.class%100 == 0 }

// IsDescendant reports whether child is strictly below parent in the
// hierarchy, i.e. its text extends the parent's text.
func IsDescendant(parent, child Code) bool {
	if len(child.raw) <= len(parent.raw) || !strings.HasPrefix(child.raw, parent.raw) {
		return false
	}
	if parent.IsClass() {
		return child.raw[classWidth] == '.'
	}
	return true
}

// IsDirectChild reports whether child is a descendant exactly one digit
// deeper than parent.
func IsDirectChild(parent, child Code) bool {
	return IsDescendant(parent, child) && child.Digits() == parent.Digits()+1
}

// Compare orders codes by class value, then decimal digits, then raw text.
// Comparing decimal digit strings lexically matches numeric order of the
// fractional part, with shorter forms first on ties.
func Compare(a, b Code) int {
	switch {
	case a.class < b.class:
		return -1
	case a.class > b.class:
		return 1
	}
	if r := strings.Compare(a.decimals, b.decimals); r != 0 {
		return r
	}
	return strings.Compare(a.raw, b.raw)
}

// RangeEnd returns the exclusive end of a class range starting at start,
// clamped to Bound so that the last century and decade need no special case.
func RangeEnd(start, step int) int {
	return min(Bound, start+step)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
