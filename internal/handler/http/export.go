package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shiftlog/shiftlog-backend-go/internal/domain/export"
	"github.com/shiftlog/shiftlog-backend-go/internal/handler/http/response"
)

type ExportHandler interface {
	DownloadCSV(w http.ResponseWriter, r *http.Request)
	PostToSlack(w http.ResponseWriter, r *http.Request)
}

type exportHandlerImpl struct {
	exportService export.ExportService
}

func NewExportHandler(exportService export.ExportService) ExportHandler {
	return &exportHandlerImpl{
		exportService: exportService,
	}
}

func (h *exportHandlerImpl) monthParam(r *http.Request) (time.Time, bool) {
	m, err := time.ParseInLocation("2006-01", chi.URLParam(r, "month"), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return m, true
}

// DownloadCSV implements ExportHandler.
func (h *exportHandlerImpl) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	month, ok := h.monthParam(r)
	if !ok {
		response.BadRequest(w, "Invalid month, expected YYYY-MM", nil)
		return
	}

	table, err := h.exportService.MonthlyTable(r.Context(), userID, month.Year(), month.Month())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%d-%02d.csv", table.Year, int(table.Month))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.exportService.WriteCSV(w, table); err != nil {
		// Headers are out; nothing sensible left to send.
		return
	}
}

// PostToSlack implements ExportHandler.
func (h *exportHandlerImpl) PostToSlack(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	month, ok := h.monthParam(r)
	if !ok {
		response.BadRequest(w, "Invalid month, expected YYYY-MM", nil)
		return
	}

	table, err := h.exportService.MonthlyTable(r.Context(), userID, month.Year(), month.Month())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.exportService.PostToSlack(r.Context(), table); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly table posted to Slack", nil)
}
