package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tradeops/internal/core"
)

// errAsOf marks an as_of query parameter that did not parse.
var errAsOf = errors.New("invalid as_of: want YYYY-MM-DD")

// parseAsOf reads the as_of query parameter. Empty means today.
func parseAsOf(r *http.Request) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get("as_of"))
	if v == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: got %q", errAsOf, v)
	}
	return t, nil
}

// parsePeriod reads year and month query parameters. The month accepts
// numbers and English names. Both default to the current period.
func parsePeriod(r *http.Request) (int, time.Month, error) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1900 || y > 9999 {
			return 0, 0, fmt.Errorf("invalid year %q", v)
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := core.ParseMonth(v)
		if err != nil {
			return 0, 0, err
		}
		month = m
	}

	return year, month, nil
}

// actor identifies who performed a mutation for the audit trail.
func actor(r *http.Request) string {
	if a := strings.TrimSpace(r.Header.Get("X-Actor")); a != "" {
		return a
	}
	return "api"
}
