package timesheet

import (
	"time"
)

// AttendanceRecord is one user's attendance for one civil day.
// At most one record exists per (UserID, Date); it is created lazily on the
// first clock-in or edit and its sessions are replaced wholesale on a day edit.
type AttendanceRecord struct {
	ID        string
	UserID    string
	Date      time.Time // civil date at midnight UTC, no time component
	Sessions  []WorkSession
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkSession is a single clock-in/clock-out span. ClockOut is nil while the
// session is still open; a record holds at most one open session at a time.
type WorkSession struct {
	ID       string
	RecordID string
	ClockIn  time.Time
	ClockOut *time.Time
	Breaks   []Break
}

// Break is a pause nested inside one session. EndAt is nil while ongoing;
// a session holds at most one ongoing break at a time.
type Break struct {
	ID        string
	SessionID string
	StartAt   time.Time
	EndAt     *time.Time
}

func (s WorkSession) Open() bool { return s.ClockOut == nil }

func (b Break) Ongoing() bool { return b.EndAt == nil }

// DayState is the implicit punch state machine, derived from open rows on
// read and never stored.
type DayState string

const (
	StateIdle    DayState = "idle"
	StateWorking DayState = "working"
	StateOnBreak DayState = "on_break"
)

// DeriveState reports the day's state together with the open session and
// ongoing break, when present.
func DeriveState(sessions []WorkSession) (DayState, *WorkSession, *Break) {
	for i := range sessions {
		s := &sessions[i]
		if !s.Open() {
			continue
		}
		for j := range s.Breaks {
			if s.Breaks[j].Ongoing() {
				return StateOnBreak, s, &s.Breaks[j]
			}
		}
		return StateWorking, s, nil
	}
	return StateIdle, nil, nil
}

// CivilDate truncates t to the calendar day it falls on in loc, normalized to
// midnight UTC so dates compare and store consistently.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
