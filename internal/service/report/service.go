package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftlog/shiftlog-backend-go/internal/domain/report"
)

type ReportServiceImpl struct {
	report.ReportRepository
}

func NewReportService(repo report.ReportRepository) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository: repo,
	}
}

// Get implements report.ReportService.
func (s *ReportServiceImpl) Get(ctx context.Context, userID string, date time.Time) (report.ReportResponse, error) {
	rep, err := s.ReportRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to get daily report: %w", err)
	}
	if rep == nil {
		return report.ReportResponse{}, report.ErrReportNotFound
	}

	return report.NewReportResponse(*rep), nil
}

// Update implements report.ReportService. A nil task list leaves that type
// untouched; an empty list clears it.
func (s *ReportServiceImpl) Update(ctx context.Context, userID string, date time.Time, req report.UpdateReportRequest) (report.ReportResponse, error) {
	rep, err := s.ReportRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to get daily report: %w", err)
	}
	if rep == nil {
		created, err := s.ReportRepository.Create(ctx, report.DailyReport{UserID: userID, Date: date})
		if err != nil {
			return report.ReportResponse{}, fmt.Errorf("failed to create daily report: %w", err)
		}
		rep = &created
	}

	if req.Planned != nil {
		if err := s.ReportRepository.ReplaceTasks(ctx, rep.ID, report.TaskTypePlanned, taskEntities(req.Planned, report.TaskTypePlanned)); err != nil {
			return report.ReportResponse{}, fmt.Errorf("failed to replace planned tasks: %w", err)
		}
	}
	if req.Actual != nil {
		if err := s.ReportRepository.ReplaceTasks(ctx, rep.ID, report.TaskTypeActual, taskEntities(req.Actual, report.TaskTypeActual)); err != nil {
			return report.ReportResponse{}, fmt.Errorf("failed to replace actual tasks: %w", err)
		}
	}

	updated, err := s.ReportRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to reload daily report: %w", err)
	}

	return report.NewReportResponse(*updated), nil
}

func taskEntities(inputs []report.TaskInput, taskType report.TaskType) []report.DailyReportTask {
	tasks := make([]report.DailyReportTask, 0, len(inputs))
	for _, in := range inputs {
		tasks = append(tasks, report.DailyReportTask{
			TaskType:  taskType,
			TaskName:  in.TaskName,
			Hours:     in.Hours,
			SortOrder: in.SortOrder,
		})
	}
	return tasks
}
