package dewey

import (
	"strings"

	"github.com/deweycatalog/catalog/shared/apperr"
)

// NormalizeTableNo turns "3", "t3" or "T3" into the auxiliary table number
// "T3".
func NormalizeTableNo(s string) (string, error) {
	n := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "T")
	if n == "" || len(n) > 2 || !allDigits(n) {
		return "", apperr.Validation("Invalid table number %q", s)
	}
	return "T" + n, nil
}
