package scheduler

import (
	"testing"
	"time"
)

func TestIsWorkingDay(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2026-08-28", true},  // Friday
		{"2026-08-29", false}, // Saturday
		{"2026-08-30", false}, // Sunday
		{"2026-08-31", true},  // Monday
	}

	for _, tt := range tests {
		date, err := time.Parse(DateLayout, tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := IsWorkingDay(date); got != tt.want {
			t.Errorf("IsWorkingDay(%s %s) = %v, want %v", tt.date, date.Weekday(), got, tt.want)
		}
	}
}

func TestPreviousDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	// 01:00 UTC on Aug 29 is still Aug 28 evening in New York, so the
	// previous day there is Aug 27.
	now := time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC)

	got := PreviousDay(now, loc)
	if got.Format(DateLayout) != "2026-08-27" {
		t.Errorf("PreviousDay = %s, want 2026-08-27", got.Format(DateLayout))
	}
	if got.Hour() != 0 || got.Location() != loc {
		t.Errorf("expected midnight in business timezone, got %v", got)
	}
}

func TestPreviousDayMondayResolvesToSunday(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	// Monday morning resolves to Sunday, which the worker skips. Friday
	// was already analyzed by the Saturday morning run.
	monday := time.Date(2026, 8, 31, 12, 0, 0, 0, loc)

	got := PreviousDay(monday, loc)
	if got.Weekday() != time.Sunday {
		t.Errorf("PreviousDay(Monday) = %s, want Sunday", got.Weekday())
	}
	if IsWorkingDay(got) {
		t.Error("Sunday must not count as a working day")
	}
}
