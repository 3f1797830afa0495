package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftlog/shiftlog-backend-go/internal/domain/export"
	"github.com/shiftlog/shiftlog-backend-go/internal/domain/timesheet"
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/slack"
	"github.com/shiftlog/shiftlog-backend-go/internal/repository/memory"
	timesheetService "github.com/shiftlog/shiftlog-backend-go/internal/service/timesheet"
)

const testUserID = "user-1"

func ms(t time.Time) *int64 {
	v := t.UnixMilli()
	return &v
}

func newTestExportService(t *testing.T, slackClient *slack.Client) (export.ExportService, timesheet.TimesheetService) {
	t.Helper()
	tsSvc := timesheetService.NewTimesheetService(
		memory.NewTimesheetRepository(),
		memory.NewReportRepository(),
		time.UTC,
		3,
	)
	return NewExportService(tsSvc, slackClient, time.UTC), tsSvc
}

func punchDay(t *testing.T, svc timesheet.TimesheetService, day, fromH, toH int) {
	t.Helper()
	ctx := context.Background()
	in := time.Date(2026, 8, day, fromH, 0, 0, 0, time.UTC)
	out := time.Date(2026, 8, day, toH, 0, 0, 0, time.UTC)
	_, err := svc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(in)})
	require.NoError(t, err)
	_, err = svc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{At: ms(out)})
	require.NoError(t, err)
}

func TestMonthlyTable(t *testing.T) {
	ctx := context.Background()
	svc, tsSvc := newTestExportService(t, nil)

	punchDay(t, tsSvc, 3, 9, 17)

	table, err := svc.MonthlyTable(ctx, testUserID, 2026, time.August)
	require.NoError(t, err)

	// One row per calendar day, punches or not
	require.Len(t, table.Rows, 31)
	assert.Equal(t, "2026-08-01", table.Rows[0].Date)
	assert.Equal(t, "2026-08-31", table.Rows[30].Date)

	// Empty day renders blanks everywhere
	empty := table.Rows[0]
	assert.Equal(t, export.Blank, empty.WorkHours)
	assert.Equal(t, export.Blank, empty.BreakHours)
	for _, cell := range empty.Sessions {
		assert.Equal(t, export.Blank, cell.ClockIn)
		assert.Equal(t, export.Blank, cell.ClockOut)
	}

	// Punched day renders times and decimal hours
	worked := table.Rows[2]
	assert.Equal(t, "Mon", worked.Weekday)
	assert.Equal(t, "09:00", worked.Sessions[0].ClockIn)
	assert.Equal(t, "17:00", worked.Sessions[0].ClockOut)
	assert.Equal(t, "8.00", worked.WorkHours)
	assert.Equal(t, "0.00", worked.BreakHours)
	assert.Equal(t, export.Blank, worked.Sessions[1].ClockIn)
}

func TestMonthlyTableHalfHours(t *testing.T) {
	ctx := context.Background()
	svc, tsSvc := newTestExportService(t, nil)

	in := time.Date(2026, 8, 4, 9, 0, 0, 0, time.UTC)
	out := time.Date(2026, 8, 4, 16, 30, 0, 0, time.UTC)
	_, err := tsSvc.ClockIn(ctx, testUserID, timesheet.ClockInRequest{At: ms(in)})
	require.NoError(t, err)
	_, err = tsSvc.ClockOut(ctx, testUserID, timesheet.ClockOutRequest{At: ms(out)})
	require.NoError(t, err)

	table, err := svc.MonthlyTable(ctx, testUserID, 2026, time.August)
	require.NoError(t, err)
	assert.Equal(t, "7.50", table.Rows[3].WorkHours)
}

func TestWriteCSV(t *testing.T) {
	ctx := context.Background()
	svc, tsSvc := newTestExportService(t, nil)

	punchDay(t, tsSvc, 3, 9, 17)

	table, err := svc.MonthlyTable(ctx, testUserID, 2026, time.August)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, table))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// Header plus a row per day
	require.Len(t, records, 32)
	assert.Equal(t,
		[]string{"Date", "Weekday", "In1", "Out1", "In2", "Out2", "In3", "Out3", "BreakHours", "WorkHours"},
		records[0])
	assert.Equal(t,
		[]string{"2026-08-03", "Mon", "09:00", "17:00", "-", "-", "-", "-", "0.00", "8.00"},
		records[3])
}

func TestPostToSlack(t *testing.T) {
	ctx := context.Background()

	var payload struct {
		Text string `json:"text"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, tsSvc := newTestExportService(t, slack.NewClient(server.URL))
	punchDay(t, tsSvc, 3, 9, 17)

	table, err := svc.MonthlyTable(ctx, testUserID, 2026, time.August)
	require.NoError(t, err)
	require.NoError(t, svc.PostToSlack(ctx, table))

	assert.Contains(t, payload.Text, "Attendance 2026-08")
	assert.Contains(t, payload.Text, "2026-08-03")
	assert.Contains(t, payload.Text, "09:00")
	assert.True(t, strings.Contains(payload.Text, "```"))
}
