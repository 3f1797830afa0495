package timesheet

import (
	"time"
)

// ========================================
// TIMESHEET DTOs
// ========================================
//
// Timestamps cross the wire as milliseconds since epoch; field names are the
// persisted contract and must not change.

type BreakInput struct {
	Start *int64 `json:"start"`
	End   *int64 `json:"end"`
}

type SessionInput struct {
	ClockIn  *int64       `json:"clockIn"`
	ClockOut *int64       `json:"clockOut"`
	Breaks   []BreakInput `json:"breaks"`
}

// ReplaceDayRequest is the full-day overwrite submitted by the edit flows.
// Rows without a clock-in are empty form rows, not errors.
type ReplaceDayRequest struct {
	Sessions []SessionInput `json:"sessions"`
}

func (r *ReplaceDayRequest) Validate() error {
	return ValidateSessions(r.Sessions)
}

type TaskEntry struct {
	TaskName  string   `json:"taskName"`
	Hours     *float64 `json:"hours"`
	SortOrder int      `json:"sortOrder"`
}

// ClockInRequest carries an optional punch time (ms epoch, defaults to now)
// and the planned tasks for the companion daily report.
type ClockInRequest struct {
	At           *int64      `json:"at"`
	PlannedTasks []TaskEntry `json:"plannedTasks"`
}

type ClockOutRequest struct {
	At          *int64      `json:"at"`
	ActualTasks []TaskEntry `json:"actualTasks"`
}

type BreakRequest struct {
	At *int64 `json:"at"`
}

type BreakResponse struct {
	ID    string `json:"id"`
	Start *int64 `json:"start"`
	End   *int64 `json:"end"`
}

type WorkSessionResponse struct {
	ID       string          `json:"id"`
	ClockIn  *int64          `json:"clockIn"`
	ClockOut *int64          `json:"clockOut"`
	Breaks   []BreakResponse `json:"breaks"`
}

// DayResponse is the formatted read side of one attendance record.
type DayResponse struct {
	Date         string                `json:"date"`
	Sessions     []WorkSessionResponse `json:"sessions"`
	WorkTotalMs  int64                 `json:"workTotalMs"`
	BreakTotalMs int64                 `json:"breakTotalMs"`
}

type DayStatusResponse struct {
	Date            string   `json:"date"`
	State           DayState `json:"state"`
	ActiveSessionID string   `json:"activeSessionId,omitempty"`
	ActiveBreakID   string   `json:"activeBreakId,omitempty"`
	CanClockIn      bool     `json:"canClockIn"`
	CanClockOut     bool     `json:"canClockOut"`
	CanStartBreak   bool     `json:"canStartBreak"`
	CanEndBreak     bool     `json:"canEndBreak"`
}

type WeeklySummaryResponse struct {
	WeekStart   string `json:"weekStart"`
	WeekEnd     string `json:"weekEnd"`
	WorkTotalMs int64  `json:"workTotalMs"`
}

// NewDayResponse formats a record with its persisted day totals.
func NewDayResponse(rec AttendanceRecord) DayResponse {
	sessions := make([]WorkSessionResponse, 0, len(rec.Sessions))
	for _, s := range rec.Sessions {
		breaks := make([]BreakResponse, 0, len(s.Breaks))
		for _, b := range s.Breaks {
			breaks = append(breaks, BreakResponse{
				ID:    b.ID,
				Start: MsPtr(&b.StartAt),
				End:   MsPtr(b.EndAt),
			})
		}
		sessions = append(sessions, WorkSessionResponse{
			ID:       s.ID,
			ClockIn:  MsPtr(&s.ClockIn),
			ClockOut: MsPtr(s.ClockOut),
			Breaks:   breaks,
		})
	}

	totals := TotalsForDay(rec.Sessions)
	return DayResponse{
		Date:         rec.Date.Format("2006-01-02"),
		Sessions:     sessions,
		WorkTotalMs:  totals.Work.Milliseconds(),
		BreakTotalMs: totals.Break.Milliseconds(),
	}
}

// MsPtr converts a timestamp to its ms-epoch wire form, preserving nil.
func MsPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// TimeFromMs is the inverse of MsPtr.
func TimeFromMs(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
