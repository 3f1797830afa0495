package report

import (
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/validator"
)

// ========================================
// DAILY REPORT DTOs
// ========================================

type TaskResponse struct {
	ID        string   `json:"id"`
	TaskType  TaskType `json:"taskType"`
	TaskName  string   `json:"taskName"`
	Hours     *float64 `json:"hours"`
	SortOrder int      `json:"sortOrder"`
}

type ReportResponse struct {
	ID          string         `json:"id"`
	Date        string         `json:"date"`
	Submitted   bool           `json:"submitted"`
	SubmittedAt *int64         `json:"submittedAt,omitempty"`
	Tasks       []TaskResponse `json:"tasks"`
}

type TaskInput struct {
	TaskName  string   `json:"taskName"`
	Hours     *float64 `json:"hours"`
	SortOrder int      `json:"sortOrder"`
}

// UpdateReportRequest replaces the report's task lists. An absent list leaves
// that task type untouched.
type UpdateReportRequest struct {
	Planned []TaskInput `json:"planned"`
	Actual  []TaskInput `json:"actual"`
}

func (r *UpdateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	for _, group := range [][]TaskInput{r.Planned, r.Actual} {
		for _, t := range group {
			if validator.IsEmpty(t.TaskName) {
				errs = append(errs, validator.ValidationError{
					Field:   "taskName",
					Message: "taskName is required",
				})
			}
			if t.Hours != nil && *t.Hours < 0 {
				errs = append(errs, validator.ValidationError{
					Field:   "hours",
					Message: "hours must not be negative",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func NewReportResponse(rep DailyReport) ReportResponse {
	tasks := make([]TaskResponse, 0, len(rep.Tasks))
	for _, t := range rep.Tasks {
		tasks = append(tasks, TaskResponse{
			ID:        t.ID,
			TaskType:  t.TaskType,
			TaskName:  t.TaskName,
			Hours:     t.Hours,
			SortOrder: t.SortOrder,
		})
	}

	resp := ReportResponse{
		ID:        rep.ID,
		Date:      rep.Date.Format("2006-01-02"),
		Submitted: rep.Submitted,
		Tasks:     tasks,
	}
	if rep.SubmittedAt != nil {
		ms := rep.SubmittedAt.UnixMilli()
		resp.SubmittedAt = &ms
	}
	return resp
}
