package sheets

import (
	"testing"
	"time"
)

func TestParseTabDate(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		title string
		want  string
		ok    bool
	}{
		{"8/28/2026", "2026-08-28", true},
		{"08/28/2026", "2026-08-28", true},
		{"8/28", "2026-08-28", true},
		{"  8/28  ", "2026-08-28", true},
		{"1/2", "2026-01-02", true},
		{"Summary", "", false},
		{"Template", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, ok := ParseTabDate(tt.title, 2026, loc)
			if ok != tt.ok {
				t.Fatalf("ParseTabDate(%q) ok = %v, want %v", tt.title, ok, tt.ok)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseTabDate(%q) = %s, want %s", tt.title, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestFindTabForDate(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, loc)

	titles := []string{"Summary", "8/27", "8/28", "8/29"}

	tab, ok := FindTabForDate(titles, day, loc)
	if !ok || tab != "8/28" {
		t.Errorf("FindTabForDate = %q, %v; want 8/28", tab, ok)
	}

	_, ok = FindTabForDate([]string{"Summary"}, day, loc)
	if ok {
		t.Error("no dated tabs should not match")
	}
}

func TestLatestTab(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, loc)

	titles := []string{"Summary", "8/25", "8/27", "8/30"}

	tab, ok := LatestTab(titles, day, loc)
	if !ok || tab != "8/27" {
		t.Errorf("LatestTab = %q, %v; want 8/27 (future tabs skipped)", tab, ok)
	}

	_, ok = LatestTab([]string{"9/1"}, day, loc)
	if ok {
		t.Error("a tab after the target day must not be selected")
	}
}
