package sheets

import (
	"strings"
	"time"
)

// Tab title layouts the ledger spreadsheet has used over time. Titles carry
// month/day, with the year optional on older tabs.
var tabLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"1/2",
	"01/02",
}

// ParseTabDate interprets a sheet tab title as a calendar date in the given
// location. Titles without a year inherit the fallback year. Returns false
// for titles that are not dates (summary tabs, templates).
func ParseTabDate(title string, fallbackYear int, loc *time.Location) (time.Time, bool) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range tabLayouts {
		parsed, err := time.ParseInLocation(layout, trimmed, loc)
		if err != nil {
			continue
		}
		if !strings.Contains(layout, "2006") && !strings.Contains(layout, "06") {
			parsed = time.Date(fallbackYear, parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc)
		}
		return parsed, true
	}

	return time.Time{}, false
}

// FindTabForDate returns the title of the tab whose parsed date equals the
// target day. Tabs that do not parse as dates are skipped.
func FindTabForDate(titles []string, day time.Time, loc *time.Location) (string, bool) {
	for _, title := range titles {
		parsed, ok := ParseTabDate(title, day.Year(), loc)
		if !ok {
			continue
		}
		if sameDay(parsed, day) {
			return title, true
		}
	}
	return "", false
}

// LatestTab returns the date-parseable tab with the most recent date not
// after the given day. Used when the exact tab for a day is missing and the
// caller wants the newest available ledger instead.
func LatestTab(titles []string, day time.Time, loc *time.Location) (string, bool) {
	best := ""
	var bestDate time.Time

	for _, title := range titles {
		parsed, ok := ParseTabDate(title, day.Year(), loc)
		if !ok || parsed.After(day) {
			continue
		}
		if best == "" || parsed.After(bestDate) {
			best = title
			bestDate = parsed
		}
	}

	return best, best != ""
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
