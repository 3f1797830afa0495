package export

import "time"

// SessionSlots caps how many clock-in/out pairs a row renders. The engine
// itself does not limit session count; this is the tabular layout's width.
const SessionSlots = 3

// Blank fills cells for days and slots with no data.
const Blank = "-"

// SessionCell is one rendered clock-in/out pair, "-" when empty.
type SessionCell struct {
	ClockIn  string
	ClockOut string
}

// DayRow is one calendar day of the monthly table. Every day of the month
// gets a row, present or not.
type DayRow struct {
	Date       string // YYYY-MM-DD
	Weekday    string
	Sessions   [SessionSlots]SessionCell
	BreakHours string // decimal hours, "-" when no data
	WorkHours  string
}

// MonthlyTable is the shared tabular representation consumed by both the CSV
// writer and the Slack poster.
type MonthlyTable struct {
	UserID string
	Year   int
	Month  time.Month
	Rows   []DayRow
}
