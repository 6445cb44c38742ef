package sessionclock

import (
	"testing"
	"time"
)

func TestSessionDate_WeekdayTable(t *testing.T) {
	t.Parallel()

	// 2026-05-04 is a Monday.
	cases := []struct {
		day  string
		want string
	}{
		{"2026-05-04", "2026-05-05"}, // Mon -> Tue
		{"2026-05-05", "2026-05-05"}, // Tue -> Tue
		{"2026-05-06", "2026-05-08"}, // Wed -> Fri
		{"2026-05-07", "2026-05-08"}, // Thu -> Fri
		{"2026-05-08", "2026-05-08"}, // Fri -> Fri
		{"2026-05-09", "2026-05-12"}, // Sat -> Tue
		{"2026-05-10", "2026-05-12"}, // Sun -> Tue
	}

	for _, tc := range cases {
		now, err := time.ParseInLocation("2006-01-02", tc.day, BRT)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.day, err)
		}
		got := FormatKey(SessionDate(now))
		if got != tc.want {
			t.Errorf("SessionDate(%s %s) = %s, want %s", tc.day, now.Weekday(), got, tc.want)
		}
	}
}

func TestSessionDate_ConvertsForeignZones(t *testing.T) {
	t.Parallel()

	// 2026-05-05 01:00 UTC is still Monday 22:00 in Brasília.
	now := time.Date(2026, 5, 5, 1, 0, 0, 0, time.UTC)
	if got := FormatKey(SessionDate(now)); got != "2026-05-05" {
		t.Fatalf("expected Monday night to close on Tuesday, got %s", got)
	}
}

func TestFormatDateTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 5, 5, 18, 30, 0, 0, BRT)
	if got := FormatDateTime(ts); got != "05/05/2026 às 18:30 (Brasília)" {
		t.Fatalf("unexpected display timestamp: %s", got)
	}
}
