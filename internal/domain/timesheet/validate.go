package timesheet

import "sort"

// ValidateSessions checks a candidate day edit and fails fast on the first
// violation. Sessions without a clock-in and breaks without a start are
// skipped: they are empty edit-form rows, not data errors. Equal endpoints
// are allowed; a zero-duration session is not an error at this layer.
//
// Cross-session overlap is deliberately not checked here (see DESIGN.md).
func ValidateSessions(sessions []SessionInput) error {
	for _, s := range sessions {
		if s.ClockIn == nil {
			continue
		}

		if s.ClockOut != nil && *s.ClockOut < *s.ClockIn {
			return ErrClockOutBeforeClockIn
		}

		for _, b := range s.Breaks {
			if b.Start == nil {
				continue
			}
			if b.End != nil && *b.End < *b.Start {
				return ErrBreakEndBeforeStart
			}
			if *b.Start < *s.ClockIn {
				return ErrBreakStartBeforeClockIn
			}
			if s.ClockOut != nil && b.End != nil && *b.End > *s.ClockOut {
				return ErrBreakEndAfterClockOut
			}
		}
	}
	return nil
}

// FilterSessions drops clock-in-less sessions and start-less breaks, the rows
// ValidateSessions would skip, so the survivors are what gets persisted.
func FilterSessions(sessions []SessionInput) []SessionInput {
	kept := make([]SessionInput, 0, len(sessions))
	for _, s := range sessions {
		if s.ClockIn == nil {
			continue
		}
		breaks := make([]BreakInput, 0, len(s.Breaks))
		for _, b := range s.Breaks {
			if b.Start == nil {
				continue
			}
			breaks = append(breaks, b)
		}
		s.Breaks = breaks
		kept = append(kept, s)
	}
	return kept
}

// SessionsFromInput converts filtered candidate rows into session entities
// ordered by clock-in ascending, ready for a day rewrite. IDs are assigned
// by the store.
func SessionsFromInput(recordID string, inputs []SessionInput) []WorkSession {
	sessions := make([]WorkSession, 0, len(inputs))
	for _, in := range inputs {
		if in.ClockIn == nil {
			continue
		}
		s := WorkSession{
			RecordID: recordID,
			ClockIn:  *TimeFromMs(in.ClockIn),
			ClockOut: TimeFromMs(in.ClockOut),
		}
		for _, b := range in.Breaks {
			if b.Start == nil {
				continue
			}
			s.Breaks = append(s.Breaks, Break{
				StartAt: *TimeFromMs(b.Start),
				EndAt:   TimeFromMs(b.End),
			})
		}
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ClockIn.Before(sessions[j].ClockIn)
	})
	return sessions
}
