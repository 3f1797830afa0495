package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shiftlog/shiftlog-backend-go/internal/domain/report"
)

type ReportRepository struct {
	mu      sync.RWMutex
	reports map[string]*report.DailyReport
	tasks   map[string]*report.DailyReportTask
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		reports: make(map[string]*report.DailyReport),
		tasks:   make(map[string]*report.DailyReportTask),
	}
}

func (r *ReportRepository) findReport(userID string, date time.Time) *report.DailyReport {
	for _, rep := range r.reports {
		if rep.UserID == userID && rep.Date.Equal(date) {
			return rep
		}
	}
	return nil
}

// GetByUserAndDate implements report.ReportRepository.
func (r *ReportRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*report.DailyReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep := r.findReport(userID, date)
	if rep == nil {
		return nil, nil
	}

	loaded := *rep
	loaded.Tasks = nil
	for _, t := range r.tasks {
		if t.ReportID == rep.ID {
			loaded.Tasks = append(loaded.Tasks, *t)
		}
	}
	sort.Slice(loaded.Tasks, func(i, j int) bool {
		if loaded.Tasks[i].TaskType != loaded.Tasks[j].TaskType {
			return loaded.Tasks[i].TaskType < loaded.Tasks[j].TaskType
		}
		return loaded.Tasks[i].SortOrder < loaded.Tasks[j].SortOrder
	})
	return &loaded, nil
}

// Create implements report.ReportRepository.
func (r *ReportRepository) Create(ctx context.Context, rep report.DailyReport) (report.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.findReport(rep.UserID, rep.Date); existing != nil {
		rep.ID = existing.ID
	} else {
		now := time.Now().UTC()
		stored := rep
		stored.ID = uuid.NewString()
		stored.Tasks = nil
		stored.CreatedAt = now
		stored.UpdatedAt = now
		r.reports[stored.ID] = &stored
		rep.ID = stored.ID
	}

	for i := range rep.Tasks {
		t := rep.Tasks[i]
		t.ID = uuid.NewString()
		t.ReportID = rep.ID
		r.tasks[t.ID] = &t
		rep.Tasks[i] = t
	}
	return rep, nil
}

// MarkSubmitted implements report.ReportRepository.
func (r *ReportRepository) MarkSubmitted(ctx context.Context, reportID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.reports[reportID]
	if !ok {
		return report.ErrReportNotFound
	}
	submittedAt := at
	rep.Submitted = true
	rep.SubmittedAt = &submittedAt
	rep.UpdatedAt = time.Now().UTC()
	return nil
}

// ReplaceTasks implements report.ReportRepository.
func (r *ReportRepository) ReplaceTasks(ctx context.Context, reportID string, taskType report.TaskType, tasks []report.DailyReportTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reports[reportID]; !ok {
		return report.ErrReportNotFound
	}

	for id, t := range r.tasks {
		if t.ReportID == reportID && t.TaskType == taskType {
			delete(r.tasks, id)
		}
	}
	for _, t := range tasks {
		stored := t
		stored.ID = uuid.NewString()
		stored.ReportID = reportID
		stored.TaskType = taskType
		r.tasks[stored.ID] = &stored
	}
	return nil
}
