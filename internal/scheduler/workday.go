package scheduler

import "time"

// IsWorkingDay reports whether a date falls on a business day. The sales
// team does not demo on weekends, so weekend runs are skipped rather than
// producing all-zero rows.
func IsWorkingDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// PreviousDay returns yesterday in the given location, at midnight. The
// daily cron fires in the morning and analyzes the day before; when that
// day is a weekend the caller skips the run. Friday is covered by the
// Saturday morning run, so walking back over weekends here would analyze
// it twice.
func PreviousDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	y := local.AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, loc)
}
