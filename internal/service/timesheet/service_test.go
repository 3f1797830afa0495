package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftlog/shiftlog-backend-go/internal/domain/report"
	"github.com/shiftlog/shiftlog-backend-go/internal/domain/timesheet"
	"github.com/shiftlog/shiftlog-backend-go/internal/repository/memory"
)

const testUserID = "user-1"

func newTestService(t *testing.T) (timesheet.TimesheetService, *memory.ReportRepository) {
	t.Helper()
	reportRepo := memory.NewReportRepository()
	svc := NewTimesheetService(memory.NewTimesheetRepository(), reportRepo, time.UTC, 3)
	return svc, reportRepo
}

func ms(t time.Time) *int64 {
	v := t.UnixMilli()
	return &v
}

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 3, hour, min, 0, 0, time.UTC)
}

func TestClockInClockOut(t *testing.T) {
	ctx := context.Background()

	t.Run("full day punch sequence", func(t *testing.T) {
		svc, _ := newTestService(t)

		day, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(9, 0))})
		require.NoError(t, err)
		require.Len(t, day.Sessions, 1)
		assert.Nil(t, day.Sessions[0].ClockOut)
		assert.Zero(t, day.WorkTotalMs)

		day, err = svc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{At: ms(at(18, 0))})
		require.NoError(t, err)
		require.Len(t, day.Sessions, 1)
		require.NotNil(t, day.Sessions[0].ClockOut)
		assert.Equal(t, (9 * time.Hour).Milliseconds(), day.WorkTotalMs)
	})

	t.Run("double clock in rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(9, 0))})
		require.NoError(t, err)

		_, err = svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(9, 5))})
		assert.ErrorIs(t, err, timesheet.ErrAlreadyClockedIn)
	})

	t.Run("clock out without active session rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{At: ms(at(18, 0))})
		assert.ErrorIs(t, err, timesheet.ErrNoActiveSession)
	})

	t.Run("second session same day", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(9, 0))})
		require.NoError(t, err)
		_, err = svc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{At: ms(at(12, 0))})
		require.NoError(t, err)

		_, err = svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(13, 0))})
		require.NoError(t, err)
		day, err := svc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{At: ms(at(17, 30))})
		require.NoError(t, err)

		require.Len(t, day.Sessions, 2)
		assert.Equal(t, (7*time.Hour + 30*time.Minute).Milliseconds(), day.WorkTotalMs)
	})
}

func TestBreaks(t *testing.T) {
	ctx := context.Background()

	t.Run("break lifecycle reduces work total", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(9, 0))})
		require.NoError(t, err)
		_, err = svc.StartBreak(ctx, testUserID, timesheet.BreakRequest{At: ms(at(12, 0))})
		require.NoError(t, err)
		_, err = svc.EndBreak(ctx, testUserID, timesheet.BreakRequest{At: ms(at(13, 0))})
		require.NoError(t, err)

		day, err := svc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{At: ms(at(18, 0))})
		require.NoError(t, err)
		assert.Equal(t, (8 * time.Hour).Milliseconds(), day.WorkTotalMs)
		assert.Equal(t, time.Hour.Milliseconds(), day.BreakTotalMs)
	})

	t.Run("break without session rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.StartBreak(ctx, testUserID, timesheet.BreakRequest{At: ms(at(12, 0))})
		assert.ErrorIs(t, err, timesheet.ErrNoActiveSession)
	})

	t.Run("double break start rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(9, 0))})
		require.NoError(t, err)
		_, err = svc.StartBreak(ctx, testUserID, timesheet.BreakRequest{At: ms(at(12, 0))})
		require.NoError(t, err)

		_, err = svc.StartBreak(ctx, testUserID, timesheet.BreakRequest{At: ms(at(12, 5))})
		assert.ErrorIs(t, err, timesheet.ErrBreakInProgress)
	})

	t.Run("end break without break rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(9, 0))})
		require.NoError(t, err)

		_, err = svc.EndBreak(ctx, testUserID, timesheet.BreakRequest{At: ms(at(13, 0))})
		assert.ErrorIs(t, err, timesheet.ErrNoActiveBreak)
	})
}

func TestReplaceDay(t *testing.T) {
	ctx := context.Background()
	date := at(0, 0)

	t.Run("replaces all sessions", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(8, 0))})
		require.NoError(t, err)

		day, err := svc.ReplaceDay(ctx, testUserID, date, timesheet.ReplaceDayRequest{
			Sessions: []timesheet.SessionInput{
				{
					ClockIn:  ms(at(9, 0)),
					ClockOut: ms(at(18, 0)),
					Breaks: []timesheet.BreakInput{
						{Start: ms(at(12, 0)), End: ms(at(13, 0))},
					},
				},
			},
		})
		require.NoError(t, err)
		require.Len(t, day.Sessions, 1)
		assert.Equal(t, (8 * time.Hour).Milliseconds(), day.WorkTotalMs)
	})

	t.Run("invalid edit leaves day untouched", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(9, 0))})
		require.NoError(t, err)
		before, err := svc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{At: ms(at(17, 0))})
		require.NoError(t, err)

		_, err = svc.ReplaceDay(ctx, testUserID, date, timesheet.ReplaceDayRequest{
			Sessions: []timesheet.SessionInput{
				{ClockIn: ms(at(10, 0)), ClockOut: ms(at(9, 0))},
			},
		})
		assert.ErrorIs(t, err, timesheet.ErrClockOutBeforeClockIn)

		after, err := svc.Day(ctx, testUserID, date)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("empty rows are dropped not rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		day, err := svc.ReplaceDay(ctx, testUserID, date, timesheet.ReplaceDayRequest{
			Sessions: []timesheet.SessionInput{
				{},
				{ClockIn: ms(at(9, 0)), ClockOut: ms(at(12, 0))},
			},
		})
		require.NoError(t, err)
		assert.Len(t, day.Sessions, 1)
	})

	t.Run("idempotent for identical input", func(t *testing.T) {
		svc, _ := newTestService(t)

		req := timesheet.ReplaceDayRequest{
			Sessions: []timesheet.SessionInput{
				{ClockIn: ms(at(9, 0)), ClockOut: ms(at(17, 30))},
			},
		}

		first, err := svc.ReplaceDay(ctx, testUserID, date, req)
		require.NoError(t, err)
		second, err := svc.ReplaceDay(ctx, testUserID, date, req)
		require.NoError(t, err)

		assert.Equal(t, first.WorkTotalMs, second.WorkTotalMs)
		assert.Len(t, second.Sessions, 1)
	})
}

func TestDayStatus(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService(t)

	status, err := svc.DayStatus(ctx, testUserID, at(8, 0))
	require.NoError(t, err)
	assert.Equal(t, timesheet.StateIdle, status.State)
	assert.True(t, status.CanClockIn)
	assert.False(t, status.CanClockOut)

	_, err = svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(at(9, 0))})
	require.NoError(t, err)

	status, err = svc.DayStatus(ctx, testUserID, at(10, 0))
	require.NoError(t, err)
	assert.Equal(t, timesheet.StateWorking, status.State)
	assert.True(t, status.CanClockOut)
	assert.True(t, status.CanStartBreak)
	assert.NotEmpty(t, status.ActiveSessionID)

	_, err = svc.StartBreak(ctx, testUserID, timesheet.BreakRequest{At: ms(at(12, 0))})
	require.NoError(t, err)

	status, err = svc.DayStatus(ctx, testUserID, at(12, 30))
	require.NoError(t, err)
	assert.Equal(t, timesheet.StateOnBreak, status.State)
	assert.True(t, status.CanEndBreak)
	assert.False(t, status.CanStartBreak)
	assert.NotEmpty(t, status.ActiveBreakID)
}

func TestWeeklySummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	// Mon 2026-08-03 and Wed 2026-08-05, 4h and 3.5h
	punch := func(day, fromH, fromM, toH, toM int) {
		in := time.Date(2026, 8, day, fromH, fromM, 0, 0, time.UTC)
		out := time.Date(2026, 8, day, toH, toM, 0, 0, time.UTC)
		_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(in)})
		require.NoError(t, err)
		_, err = svc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{At: ms(out)})
		require.NoError(t, err)
	}
	punch(3, 9, 0, 13, 0)
	punch(5, 9, 0, 12, 30)

	summary, err := svc.WeeklySummary(ctx, testUserID, time.Date(2026, 8, 5, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2026-08-03", summary.WeekStart)
	assert.Equal(t, "2026-08-09", summary.WeekEnd)
	assert.Equal(t, (7*time.Hour + 30*time.Minute).Milliseconds(), summary.WorkTotalMs)
}

func TestMonthlyRecords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	punch := func(month time.Month, day int) {
		in := time.Date(2026, month, day, 9, 0, 0, 0, time.UTC)
		out := time.Date(2026, month, day, 17, 0, 0, 0, time.UTC)
		_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(in)})
		require.NoError(t, err)
		_, err = svc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{At: ms(out)})
		require.NoError(t, err)
	}
	punch(time.July, 31)
	punch(time.August, 3)
	punch(time.August, 31)
	punch(time.September, 1)

	records, err := svc.MonthlyRecords(ctx, testUserID, 2026, time.August)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), records[1].Date)
}

func TestReportSideEffects(t *testing.T) {
	ctx := context.Background()
	svc, reportRepo := newTestService(t)

	hours := 2.5
	_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{
		At: ms(at(9, 0)),
		PlannedTasks: []timesheet.TaskEntry{
			{TaskName: "code review", Hours: &hours, SortOrder: 0},
		},
	})
	require.NoError(t, err)

	rep, err := reportRepo.GetByUserAndDate(ctx, testUserID, at(0, 0))
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.False(t, rep.Submitted)
	require.Len(t, rep.Tasks, 1)
	assert.Equal(t, report.TaskTypePlanned, rep.Tasks[0].TaskType)

	_, err = svc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{
		At: ms(at(18, 0)),
		ActualTasks: []timesheet.TaskEntry{
			{TaskName: "code review", SortOrder: 0},
			{TaskName: "incident response", SortOrder: 1},
		},
	})
	require.NoError(t, err)

	rep, err = reportRepo.GetByUserAndDate(ctx, testUserID, at(0, 0))
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.True(t, rep.Submitted)
	require.NotNil(t, rep.SubmittedAt)
	assert.Len(t, rep.Tasks, 3)
}
