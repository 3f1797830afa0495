package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftlog/shiftlog-backend-go/internal/domain/timesheet"
	"github.com/shiftlog/shiftlog-backend-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	GetDay(w http.ResponseWriter, r *http.Request)
	ReplaceDay(w http.ResponseWriter, r *http.Request)
	ReplaceDayForUser(w http.ResponseWriter, r *http.Request)
	GetStatus(w http.ResponseWriter, r *http.Request)
	GetMonth(w http.ResponseWriter, r *http.Request)
	GetWeeklySummary(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{
		timesheetService: timesheetService,
	}
}

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// dateParam parses a YYYY-MM-DD path parameter as a civil date.
func dateParam(r *http.Request, name string) (time.Time, bool) {
	d, err := time.ParseInLocation("2006-01-02", chi.URLParam(r, name), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ClockIn implements TimesheetHandler.
func (h *timesheetHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	var req timesheet.ClockInRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.timesheetService.ClockIn(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements TimesheetHandler.
func (h *timesheetHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	var req timesheet.ClockOutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.timesheetService.ClockOut(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// StartBreak implements TimesheetHandler.
func (h *timesheetHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	var req timesheet.BreakRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.timesheetService.StartBreak(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", result)
}

// EndBreak implements TimesheetHandler.
func (h *timesheetHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	var req timesheet.BreakRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.timesheetService.EndBreak(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", result)
}

// GetDay implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetDay(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	date, ok := dateParam(r, "date")
	if !ok {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	result, err := h.timesheetService.Day(r.Context(), userID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ReplaceDay implements TimesheetHandler.
func (h *timesheetHandlerImpl) ReplaceDay(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	h.replaceDay(w, r, userID)
}

// ReplaceDayForUser implements TimesheetHandler. Admin edit of another user's
// day; same engine and same rules as the self-service path.
func (h *timesheetHandlerImpl) ReplaceDayForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	h.replaceDay(w, r, userID)
}

func (h *timesheetHandlerImpl) replaceDay(w http.ResponseWriter, r *http.Request, userID string) {
	date, ok := dateParam(r, "date")
	if !ok {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	var req timesheet.ReplaceDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.timesheetService.ReplaceDay(r.Context(), userID, date, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Day updated", result)
}

// GetStatus implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	result, err := h.timesheetService.DayStatus(r.Context(), userID, time.Now().UTC())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonth implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetMonth(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	month, err := time.ParseInLocation("2006-01", chi.URLParam(r, "month"), time.UTC)
	if err != nil {
		response.BadRequest(w, "Invalid month, expected YYYY-MM", nil)
		return
	}

	records, err := h.timesheetService.MonthlyRecords(r.Context(), userID, month.Year(), month.Month())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	days := make([]timesheet.DayResponse, 0, len(records))
	for _, rec := range records {
		days = append(days, timesheet.NewDayResponse(rec))
	}

	response.Success(w, days)
}

// GetWeeklySummary implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetWeeklySummary(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	result, err := h.timesheetService.WeeklySummary(r.Context(), userID, time.Now().UTC())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
