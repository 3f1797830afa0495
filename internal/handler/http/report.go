package http

import (
	"encoding/json"
	"net/http"

	"github.com/shiftlog/shiftlog-backend-go/internal/domain/report"
	"github.com/shiftlog/shiftlog-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Get implements ReportHandler.
func (h *reportHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.reportService.Get(r.Context(), userID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements ReportHandler.
func (h *reportHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
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

	var req report.UpdateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.Update(r.Context(), userID, date, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Report updated", result)
}
