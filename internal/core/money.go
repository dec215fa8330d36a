// Package core holds the domain types shared by the gateway, the
// reconciliation engine and the HTTP layer. Amounts are integer cents;
// parsing from sheet cells goes through shopspring/decimal so that values
// like "1.234,56" survive the round trip without float drift.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCents converts a decimal amount string into cents. Both "12.34" and
// "12,34" forms are accepted; thousands separators are stripped when the
// string carries both separators. The third decimal digit rounds half up.
func ParseCents(s string) (int64, error) {
	s = normalizeAmount(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// CentsOrZero is the lenient form used by row parsers: malformed cells
// become zero cents instead of an error, matching how the sheet views treat
// bad data.
func CentsOrZero(s string) int64 {
	cents, err := ParseCents(s)
	if err != nil {
		return 0
	}
	return cents
}

// normalizeAmount reduces the cell to a plain dot-decimal string.
func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSpace(s)
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		// The rightmost separator is the decimal one.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}

// FormatCents renders cents as a plain decimal string ("1234.56") for sheet
// cells and JSON payloads.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// FormatEuros renders cents for display, e.g. "€1.234,56".
func FormatEuros(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	rem := cents % 100
	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune('.')
		}
		b.WriteRune(r)
	}
	out := fmt.Sprintf("€%s,%02d", b.String(), rem)
	if neg {
		return "-" + out
	}
	return out
}
