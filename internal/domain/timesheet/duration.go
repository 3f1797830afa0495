package timesheet

import "time"

// SessionBreakDuration sums the closed breaks of a session. Ongoing breaks
// contribute nothing; use SessionBreakDurationAt for live totals.
func SessionBreakDuration(s WorkSession) time.Duration {
	var total time.Duration
	for _, b := range s.Breaks {
		if b.EndAt == nil {
			continue
		}
		total += b.EndAt.Sub(b.StartAt)
	}
	return total
}

// SessionBreakDurationAt is SessionBreakDuration with the ongoing break, if
// any, counted up to now.
func SessionBreakDurationAt(s WorkSession, now time.Time) time.Duration {
	total := SessionBreakDuration(s)
	for _, b := range s.Breaks {
		if b.EndAt == nil && now.After(b.StartAt) {
			total += now.Sub(b.StartAt)
		}
	}
	return total
}

// SessionWorkDuration is the session's wall-clock span minus its closed
// breaks, clamped at zero so clock skew never yields a negative duration.
// Open sessions contribute nothing.
func SessionWorkDuration(s WorkSession) time.Duration {
	if s.ClockOut == nil {
		return 0
	}
	work := s.ClockOut.Sub(s.ClockIn) - SessionBreakDuration(s)
	if work < 0 {
		return 0
	}
	return work
}

// SessionWorkDurationAt values an open session as if it closed now.
func SessionWorkDurationAt(s WorkSession, now time.Time) time.Duration {
	if s.ClockOut != nil {
		return SessionWorkDuration(s)
	}
	work := now.Sub(s.ClockIn) - SessionBreakDurationAt(s, now)
	if work < 0 {
		return 0
	}
	return work
}

// DayTotals holds a day's aggregated durations.
type DayTotals struct {
	Work  time.Duration
	Break time.Duration
}

// TotalsForDay folds closed sessions only. Live "as of now" totals are a
// presentation concern built from the At variants.
func TotalsForDay(sessions []WorkSession) DayTotals {
	var t DayTotals
	for _, s := range sessions {
		if s.ClockOut == nil {
			continue
		}
		t.Work += SessionWorkDuration(s)
		t.Break += SessionBreakDuration(s)
	}
	return t
}

// WeekBounds returns the Monday and Sunday civil dates (midnight UTC) of the
// ISO week containing the given civil date.
func WeekBounds(date time.Time) (time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// WeekWorkTotal sums the work totals of records whose date falls in the ISO
// week containing now.
func WeekWorkTotal(records []AttendanceRecord, now time.Time) time.Duration {
	monday, sunday := WeekBounds(now)
	var total time.Duration
	for _, r := range records {
		if r.Date.Before(monday) || r.Date.After(sunday) {
			continue
		}
		total += TotalsForDay(r.Sessions).Work
	}
	return total
}
