package timesheet

import "errors"

// Timesheet domain errors
var (
	// Punch state-machine rejections
	ErrAlreadyClockedIn = errors.New("already clocked in")
	ErrNoActiveSession  = errors.New("no active session")
	ErrBreakInProgress  = errors.New("break already in progress")
	ErrNoActiveBreak    = errors.New("no active break")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)

// ValidationError is a day-edit rule violation. The Message strings are part
// of the external contract and matched by callers; Code is the stable
// machine-readable form.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrClockOutBeforeClockIn = &ValidationError{
		Code:    "clock_out_before_clock_in",
		Message: "Clock out time must be after clock in time",
	}
	ErrBreakEndBeforeStart = &ValidationError{
		Code:    "break_end_before_start",
		Message: "Break end time must be after break start time",
	}
	ErrBreakStartBeforeClockIn = &ValidationError{
		Code:    "break_start_before_clock_in",
		Message: "Break start time must be after clock in time",
	}
	ErrBreakEndAfterClockOut = &ValidationError{
		Code:    "break_end_after_clock_out",
		Message: "Break end time must be before clock out time",
	}
)
