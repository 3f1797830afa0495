package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftlog/shiftlog-backend-go/internal/domain/report"
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

// GetByUserAndDate implements report.ReportRepository.
func (r *reportRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, submitted, submitted_at, created_at, updated_at
		FROM daily_reports
		WHERE user_id = $1
		  AND date = $2
	`

	var rep report.DailyReport
	err := q.QueryRow(ctx, query, userID, date).Scan(
		&rep.ID, &rep.UserID, &rep.Date, &rep.Submitted, &rep.SubmittedAt, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get daily report: %w", err)
	}
	rep.Date = rep.Date.UTC()

	taskQuery := `
		SELECT id, report_id, task_type, task_name, hours, sort_order
		FROM daily_report_tasks
		WHERE report_id = $1
		ORDER BY task_type ASC, sort_order ASC
	`
	rows, err := q.Query(ctx, taskQuery, rep.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query report tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t report.DailyReportTask
		if err := rows.Scan(&t.ID, &t.ReportID, &t.TaskType, &t.TaskName, &t.Hours, &t.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan report task: %w", err)
		}
		rep.Tasks = append(rep.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report tasks: %w", err)
	}

	return &rep, nil
}

// Create implements report.ReportRepository.
func (r *reportRepository) Create(ctx context.Context, rep report.DailyReport) (report.DailyReport, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		insertReport := `
			INSERT INTO daily_reports (user_id, date)
			VALUES ($1, $2)
			ON CONFLICT (user_id, date) DO UPDATE SET updated_at = now()
			RETURNING id, created_at, updated_at
		`
		if err := tx.QueryRow(ctx, insertReport, rep.UserID, rep.Date).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create daily report: %w", err)
		}

		insertTask := `
			INSERT INTO daily_report_tasks (report_id, task_type, task_name, hours, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		for i := range rep.Tasks {
			t := &rep.Tasks[i]
			t.ReportID = rep.ID
			if err := tx.QueryRow(ctx, insertTask, rep.ID, t.TaskType, t.TaskName, t.Hours, t.SortOrder).Scan(&t.ID); err != nil {
				return fmt.Errorf("failed to insert report task: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return report.DailyReport{}, err
	}

	return rep, nil
}

// MarkSubmitted implements report.ReportRepository.
func (r *reportRepository) MarkSubmitted(ctx context.Context, reportID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE daily_reports
		SET submitted = true, submitted_at = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, reportID, at)
	if err != nil {
		return fmt.Errorf("failed to mark report submitted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return report.ErrReportNotFound
	}

	return nil
}

// ReplaceTasks implements report.ReportRepository.
func (r *reportRepository) ReplaceTasks(ctx context.Context, reportID string, taskType report.TaskType, tasks []report.DailyReportTask) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		deleteTasks := `DELETE FROM daily_report_tasks WHERE report_id = $1 AND task_type = $2`
		if _, err := tx.Exec(ctx, deleteTasks, reportID, taskType); err != nil {
			return fmt.Errorf("failed to delete report tasks: %w", err)
		}

		insertTask := `
			INSERT INTO daily_report_tasks (report_id, task_type, task_name, hours, sort_order)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, t := range tasks {
			if _, err := tx.Exec(ctx, insertTask, reportID, taskType, t.TaskName, t.Hours, t.SortOrder); err != nil {
				return fmt.Errorf("failed to insert report task: %w", err)
			}
		}

		return nil
	})
}
