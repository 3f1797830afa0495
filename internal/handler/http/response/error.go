package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shiftlog/shiftlog-backend-go/internal/domain/report"
	"github.com/shiftlog/shiftlog-backend-go/internal/domain/timesheet"
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Field-level request validation
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Day-edit rule violations carry their own stable codes and messages
	var dayErr *timesheet.ValidationError
	if errors.As(err, &dayErr) {
		UnprocessableEntity(w, strings.ToUpper(dayErr.Code), dayErr.Message)
		return
	}

	switch {
	// Punch state-machine rejections
	case errors.Is(err, timesheet.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in")
	case errors.Is(err, timesheet.ErrBreakInProgress):
		Conflict(w, "Break already in progress")
	case errors.Is(err, timesheet.ErrNoActiveSession):
		NotFound(w, "No active session")
	case errors.Is(err, timesheet.ErrNoActiveBreak):
		NotFound(w, "No active break")
	case errors.Is(err, timesheet.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Daily report not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
