package report

import "time"

type TaskType string

const (
	TaskTypePlanned TaskType = "planned"
	TaskTypeActual  TaskType = "actual"
)

// DailyReport is the task log that rides along with a day's punches: created
// with planned tasks at clock-in, marked submitted with actual tasks at
// clock-out. It carries no time-model invariants of its own.
type DailyReport struct {
	ID          string
	UserID      string
	Date        time.Time // civil date at midnight UTC
	Submitted   bool
	SubmittedAt *time.Time
	Tasks       []DailyReportTask
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DailyReportTask struct {
	ID        string
	ReportID  string
	TaskType  TaskType
	TaskName  string
	Hours     *float64
	SortOrder int
}
