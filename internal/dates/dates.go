// Package dates parses the loosely formatted timestamps found in feeds and in
// the persisted delivery history.
package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Parse reads a date-like string in any layout dateparse understands.
// Values without a zone are taken as UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Format renders t so that Parse returns the same instant.
func Format(t time.Time) string {
	return t.Format(time.RFC3339)
}
