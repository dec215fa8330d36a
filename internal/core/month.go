package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadMonthToken marks a month token the parser could not understand.
// Callers decide whether to surface it; nothing silently drops the token.
var ErrBadMonthToken = errors.New("unrecognized month token")

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseMonth turns a month token from a query parameter or sheet cell into a
// time.Month. Accepted forms: "1".."12", English month names and their
// three-letter abbreviations, case-insensitive.
func ParseMonth(token string) (time.Month, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadMonthToken)
	}
	if n, err := strconv.Atoi(t); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("%w: %q out of range", ErrBadMonthToken, token)
		}
		return time.Month(n), nil
	}
	if m, ok := monthNames[t]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMonthToken, token)
}
