package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftlog/shiftlog-backend-go/internal/domain/report"
	"github.com/shiftlog/shiftlog-backend-go/internal/domain/timesheet"
)

type TimesheetServiceImpl struct {
	timesheet.TimesheetRepository
	reportRepo  report.ReportRepository
	loc         *time.Location
	maxSessions int
}

func NewTimesheetService(
	timesheetRepo timesheet.TimesheetRepository,
	reportRepo report.ReportRepository,
	loc *time.Location,
	maxSessionsPerDay int,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		TimesheetRepository: timesheetRepo,
		reportRepo:          reportRepo,
		loc:                 loc,
		maxSessions:         maxSessionsPerDay,
	}
}

// warnSessionCount logs when a day exceeds the configured session policy.
// The policy is presentational; the engine never rejects extra sessions.
func (s *TimesheetServiceImpl) warnSessionCount(userID string, day timesheet.DayResponse) {
	if s.maxSessions > 0 && len(day.Sessions) > s.maxSessions {
		slog.Warn("day exceeds session policy",
			"user_id", userID, "date", day.Date,
			"sessions", len(day.Sessions), "max", s.maxSessions)
	}
}

// punchTime resolves the optional ms-epoch punch time, defaulting to now.
func punchTime(at *int64) time.Time {
	if at != nil {
		return time.UnixMilli(*at).UTC()
	}
	return time.Now().UTC()
}

// ClockIn implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ClockIn(ctx context.Context, userID string, req timesheet.ClockInRequest) (timesheet.DayResponse, error) {
	at := punchTime(req.At)
	date := timesheet.CivilDate(at, s.loc)

	// Explicit guard: a second clock-in while a session is open would give
	// the day two open sessions. The store's partial unique index backs
	// this up for concurrent punches.
	active, err := s.TimesheetRepository.GetActiveSession(ctx, userID, date)
	if err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to check active session: %w", err)
	}
	if active != nil {
		return timesheet.DayResponse{}, timesheet.ErrAlreadyClockedIn
	}

	rec, err := s.TimesheetRepository.GetOrCreateRecord(ctx, userID, date)
	if err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to resolve attendance record: %w", err)
	}

	if _, err := s.TimesheetRepository.CreateSession(ctx, rec.ID, at); err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to create work session: %w", err)
	}

	// The punch is the durable fact; the companion report is bookkeeping
	// and must never fail the clock-in.
	s.createReport(ctx, userID, date, req.PlannedTasks)

	day, err := s.Day(ctx, userID, date)
	if err == nil {
		s.warnSessionCount(userID, day)
	}
	return day, err
}

// ClockOut implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ClockOut(ctx context.Context, userID string, req timesheet.ClockOutRequest) (timesheet.DayResponse, error) {
	at := punchTime(req.At)
	date := timesheet.CivilDate(at, s.loc)

	active, err := s.TimesheetRepository.GetActiveSession(ctx, userID, date)
	if err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to check active session: %w", err)
	}
	if active == nil {
		return timesheet.DayResponse{}, timesheet.ErrNoActiveSession
	}

	if err := s.TimesheetRepository.CloseSession(ctx, active.ID, at); err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to close work session: %w", err)
	}

	s.submitReport(ctx, userID, date, at, req.ActualTasks)

	return s.Day(ctx, userID, date)
}

// StartBreak implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) StartBreak(ctx context.Context, userID string, req timesheet.BreakRequest) (timesheet.DayResponse, error) {
	at := punchTime(req.At)
	date := timesheet.CivilDate(at, s.loc)

	active, err := s.TimesheetRepository.GetActiveSession(ctx, userID, date)
	if err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to check active session: %w", err)
	}
	if active == nil {
		return timesheet.DayResponse{}, timesheet.ErrNoActiveSession
	}

	open, err := s.TimesheetRepository.GetOpenBreak(ctx, active.ID)
	if err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to check open break: %w", err)
	}
	if open != nil {
		return timesheet.DayResponse{}, timesheet.ErrBreakInProgress
	}

	if _, err := s.TimesheetRepository.CreateBreak(ctx, active.ID, at); err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to create break: %w", err)
	}

	return s.Day(ctx, userID, date)
}

// EndBreak implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) EndBreak(ctx context.Context, userID string, req timesheet.BreakRequest) (timesheet.DayResponse, error) {
	at := punchTime(req.At)
	date := timesheet.CivilDate(at, s.loc)

	active, err := s.TimesheetRepository.GetActiveSession(ctx, userID, date)
	if err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to check active session: %w", err)
	}
	if active == nil {
		return timesheet.DayResponse{}, timesheet.ErrNoActiveSession
	}

	open, err := s.TimesheetRepository.GetOpenBreak(ctx, active.ID)
	if err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to check open break: %w", err)
	}
	if open == nil {
		return timesheet.DayResponse{}, timesheet.ErrNoActiveBreak
	}

	if err := s.TimesheetRepository.CloseBreak(ctx, open.ID, at); err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to close break: %w", err)
	}

	return s.Day(ctx, userID, date)
}

// ReplaceDay implements timesheet.TimesheetService.
// Validation runs before any deletion and the rewrite itself is atomic in the
// store, so a rejected edit leaves the previous day fully intact.
func (s *TimesheetServiceImpl) ReplaceDay(ctx context.Context, userID string, date time.Time, req timesheet.ReplaceDayRequest) (timesheet.DayResponse, error) {
	filtered := timesheet.FilterSessions(req.Sessions)

	if err := timesheet.ValidateSessions(filtered); err != nil {
		return timesheet.DayResponse{}, err
	}

	rec, err := s.TimesheetRepository.GetOrCreateRecord(ctx, userID, date)
	if err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to resolve attendance record: %w", err)
	}

	sessions := timesheet.SessionsFromInput(rec.ID, filtered)
	if err := s.TimesheetRepository.ReplaceDaySessions(ctx, rec.ID, sessions); err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to replace day sessions: %w", err)
	}

	day, err := s.Day(ctx, userID, date)
	if err == nil {
		s.warnSessionCount(userID, day)
	}
	return day, err
}

// Day implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Day(ctx context.Context, userID string, date time.Time) (timesheet.DayResponse, error) {
	rec, err := s.TimesheetRepository.GetRecordByUserAndDate(ctx, userID, date)
	if err != nil {
		return timesheet.DayResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if rec == nil {
		// No punches yet: an empty day, not an error.
		return timesheet.DayResponse{
			Date:     date.Format("2006-01-02"),
			Sessions: []timesheet.WorkSessionResponse{},
		}, nil
	}

	return timesheet.NewDayResponse(*rec), nil
}

// DayStatus implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) DayStatus(ctx context.Context, userID string, at time.Time) (timesheet.DayStatusResponse, error) {
	date := timesheet.CivilDate(at, s.loc)

	rec, err := s.TimesheetRepository.GetRecordByUserAndDate(ctx, userID, date)
	if err != nil {
		return timesheet.DayStatusResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	var sessions []timesheet.WorkSession
	if rec != nil {
		sessions = rec.Sessions
	}

	state, activeSession, activeBreak := timesheet.DeriveState(sessions)
	resp := timesheet.DayStatusResponse{
		Date:          date.Format("2006-01-02"),
		State:         state,
		CanClockIn:    state == timesheet.StateIdle,
		CanClockOut:   state == timesheet.StateWorking,
		CanStartBreak: state == timesheet.StateWorking,
		CanEndBreak:   state == timesheet.StateOnBreak,
	}
	if activeSession != nil {
		resp.ActiveSessionID = activeSession.ID
	}
	if activeBreak != nil {
		resp.ActiveBreakID = activeBreak.ID
	}
	return resp, nil
}

// MonthlyRecords implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) MonthlyRecords(ctx context.Context, userID string, year int, month time.Month) ([]timesheet.AttendanceRecord, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	records, err := s.TimesheetRepository.ListRecordsByDateRange(ctx, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly records: %w", err)
	}
	return records, nil
}

// WeeklySummary implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) WeeklySummary(ctx context.Context, userID string, now time.Time) (timesheet.WeeklySummaryResponse, error) {
	today := timesheet.CivilDate(now, s.loc)
	monday, sunday := timesheet.WeekBounds(today)

	records, err := s.TimesheetRepository.ListRecordsByDateRange(ctx, userID, monday, sunday)
	if err != nil {
		return timesheet.WeeklySummaryResponse{}, fmt.Errorf("failed to list weekly records: %w", err)
	}

	return timesheet.WeeklySummaryResponse{
		WeekStart:   monday.Format("2006-01-02"),
		WeekEnd:     sunday.Format("2006-01-02"),
		WorkTotalMs: timesheet.WeekWorkTotal(records, today).Milliseconds(),
	}, nil
}

// createReport builds the day's report with planned tasks. Failures are
// logged only; losing a punch over a task-log entry is the worse outcome.
func (s *TimesheetServiceImpl) createReport(ctx context.Context, userID string, date time.Time, planned []timesheet.TaskEntry) {
	existing, err := s.reportRepo.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		slog.Error("daily report lookup failed", "user_id", userID, "date", date.Format("2006-01-02"), "error", err)
		return
	}
	if existing != nil {
		if len(planned) > 0 {
			if err := s.reportRepo.ReplaceTasks(ctx, existing.ID, report.TaskTypePlanned, taskEntities(planned, report.TaskTypePlanned)); err != nil {
				slog.Error("daily report task update failed", "user_id", userID, "error", err)
			}
		}
		return
	}

	rep := report.DailyReport{
		UserID: userID,
		Date:   date,
		Tasks:  taskEntities(planned, report.TaskTypePlanned),
	}
	if _, err := s.reportRepo.Create(ctx, rep); err != nil {
		slog.Error("daily report creation failed", "user_id", userID, "date", date.Format("2006-01-02"), "error", err)
	}
}

// submitReport marks the day's report submitted and records actual tasks.
// Best-effort, same as createReport.
func (s *TimesheetServiceImpl) submitReport(ctx context.Context, userID string, date time.Time, at time.Time, actual []timesheet.TaskEntry) {
	rep, err := s.reportRepo.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		slog.Error("daily report lookup failed", "user_id", userID, "date", date.Format("2006-01-02"), "error", err)
		return
	}
	if rep == nil {
		created, err := s.reportRepo.Create(ctx, report.DailyReport{UserID: userID, Date: date})
		if err != nil {
			slog.Error("daily report creation failed", "user_id", userID, "date", date.Format("2006-01-02"), "error", err)
			return
		}
		rep = &created
	}

	if len(actual) > 0 {
		if err := s.reportRepo.ReplaceTasks(ctx, rep.ID, report.TaskTypeActual, taskEntities(actual, report.TaskTypeActual)); err != nil {
			slog.Error("daily report task update failed", "user_id", userID, "error", err)
		}
	}
	if err := s.reportRepo.MarkSubmitted(ctx, rep.ID, at); err != nil {
		slog.Error("daily report submission failed", "user_id", userID, "error", err)
	}
}

func taskEntities(entries []timesheet.TaskEntry, taskType report.TaskType) []report.DailyReportTask {
	tasks := make([]report.DailyReportTask, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, report.DailyReportTask{
			TaskType:  taskType,
			TaskName:  e.TaskName,
			Hours:     e.Hours,
			SortOrder: e.SortOrder,
		})
	}
	return tasks
}
