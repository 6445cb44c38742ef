// Package sessionclock maps wall-clock time in Brasília to the bi-weekly
// pool session it belongs to. Weekend rounds close on the following
// Tuesday, mid-week rounds on the following Friday.
package sessionclock

import "time"

// BRT is the fixed UTC-3 offset used for every pool timestamp. A fixed
// offset keeps session math independent of tzdata and DST rules.
var BRT = time.FixedZone("BRT", -3*60*60)

// daysToClose indexes by time.Weekday (Sunday=0).
// Sun+2, Mon+1, Tue+0, Wed+2, Thu+1, Fri+0, Sat+3: always the nearer of
// next-Tuesday/next-Friday, landing on Tuesday or Friday itself with +0.
var daysToClose = [7]int{2, 1, 0, 2, 1, 0, 3}

func Now() time.Time {
	return time.Now().In(BRT)
}

func Today() time.Time {
	return truncateToDate(Now())
}

// SessionDate returns the closing date of the session containing now.
func SessionDate(now time.Time) time.Time {
	day := truncateToDate(now.In(BRT))
	return day.AddDate(0, 0, daysToClose[day.Weekday()])
}

// FormatKey renders a session date as its ISO string key.
func FormatKey(d time.Time) string {
	return d.In(BRT).Format("2006-01-02")
}

// FormatDateTime renders a display timestamp the way the pool UI shows it.
func FormatDateTime(t time.Time) string {
	return t.In(BRT).Format("02/01/2006 às 15:04 (Brasília)")
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, BRT)
}
