package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftlog/shiftlog-backend-go/internal/domain/export"
	"github.com/shiftlog/shiftlog-backend-go/internal/domain/timesheet"
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/slack"
)

type ExportServiceImpl struct {
	timesheetService timesheet.TimesheetService
	slackClient      *slack.Client
	loc              *time.Location
}

func NewExportService(
	timesheetService timesheet.TimesheetService,
	slackClient *slack.Client,
	loc *time.Location,
) export.ExportService {
	return &ExportServiceImpl{
		timesheetService: timesheetService,
		slackClient:      slackClient,
		loc:              loc,
	}
}

// MonthlyTable implements export.ExportService. Every calendar day of the
// month becomes a row; days without punches render as blanks so the table is
// positionally stable month over month.
func (s *ExportServiceImpl) MonthlyTable(ctx context.Context, userID string, year int, month time.Month) (export.MonthlyTable, error) {
	records, err := s.timesheetService.MonthlyRecords(ctx, userID, year, month)
	if err != nil {
		return export.MonthlyTable{}, fmt.Errorf("failed to load monthly records: %w", err)
	}

	byDate := make(map[string]timesheet.AttendanceRecord, len(records))
	for _, r := range records {
		byDate[r.Date.Format("2006-01-02")] = r
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, 0).Sub(first).Hours() / 24

	table := export.MonthlyTable{
		UserID: userID,
		Year:   year,
		Month:  month,
		Rows:   make([]export.DayRow, 0, int(days)),
	}

	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		row := export.DayRow{
			Date:       key,
			Weekday:    d.Weekday().String()[:3],
			BreakHours: export.Blank,
			WorkHours:  export.Blank,
		}
		for i := range row.Sessions {
			row.Sessions[i] = export.SessionCell{ClockIn: export.Blank, ClockOut: export.Blank}
		}

		if rec, ok := byDate[key]; ok && len(rec.Sessions) > 0 {
			for i, sess := range rec.Sessions {
				if i >= export.SessionSlots {
					break
				}
				row.Sessions[i].ClockIn = sess.ClockIn.In(s.loc).Format("15:04")
				if sess.ClockOut != nil {
					row.Sessions[i].ClockOut = sess.ClockOut.In(s.loc).Format("15:04")
				}
			}
			totals := timesheet.TotalsForDay(rec.Sessions)
			row.BreakHours = hoursString(totals.Break)
			row.WorkHours = hoursString(totals.Work)
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// hoursString renders a duration as decimal hours with two places, e.g. "7.50".
func hoursString(d time.Duration) string {
	return decimal.NewFromInt(int64(d / time.Minute)).
		Div(decimal.NewFromInt(60)).
		StringFixed(2)
}

// WriteCSV implements export.ExportService.
func (s *ExportServiceImpl) WriteCSV(w io.Writer, table export.MonthlyTable) error {
	cw := csv.NewWriter(w)

	header := []string{"Date", "Weekday", "In1", "Out1", "In2", "Out2", "In3", "Out3", "BreakHours", "WorkHours"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range table.Rows {
		record := []string{row.Date, row.Weekday}
		for _, cell := range row.Sessions {
			record = append(record, cell.ClockIn, cell.ClockOut)
		}
		record = append(record, row.BreakHours, row.WorkHours)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// PostToSlack implements export.ExportService. The table goes out as a
// monospace code block so the columns line up in the channel.
func (s *ExportServiceImpl) PostToSlack(ctx context.Context, table export.MonthlyTable) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Attendance %d-%02d (user %s)\n```\n", table.Year, int(table.Month), table.UserID)
	fmt.Fprintf(&b, "%-10s %-3s %-5s %-5s %-5s %-5s %-5s %-5s %6s %6s\n",
		"Date", "Day", "In1", "Out1", "In2", "Out2", "In3", "Out3", "Break", "Work")
	for _, row := range table.Rows {
		fmt.Fprintf(&b, "%-10s %-3s %-5s %-5s %-5s %-5s %-5s %-5s %6s %6s\n",
			row.Date, row.Weekday,
			row.Sessions[0].ClockIn, row.Sessions[0].ClockOut,
			row.Sessions[1].ClockIn, row.Sessions[1].ClockOut,
			row.Sessions[2].ClockIn, row.Sessions[2].ClockOut,
			row.BreakHours, row.WorkHours)
	}
	b.WriteString("```")

	if err := s.slackClient.PostText(ctx, b.String()); err != nil {
		return fmt.Errorf("failed to post monthly table to slack: %w", err)
	}
	return nil
}
