package extractor

import (
	"regexp"
	"strings"
	"time"
)

// dateLayouts are tried in order when normalizing a date token. Everything
// the engine reports uses the canonical civil date (UTC midnight).
var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-2006",
	"2006/01/02",
}

var ordinalRe = regexp.MustCompile(`(\d{1,2})(st|nd|rd|th)`)

// parseDate normalizes a free-form date token to a UTC civil date.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	s = ordinalRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "  ", " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// isoDate formats a time as the canonical YYYY-MM-DD string used in field maps.
func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// monthsBetween returns the approximate lease term in months, rounding a
// partial trailing month up.
func monthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	days := int(end.Sub(start).Hours() / 24)
	return (days + 30) / 30
}
