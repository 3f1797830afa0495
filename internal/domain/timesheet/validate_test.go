package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(t time.Time) *int64 {
	v := t.UnixMilli()
	return &v
}

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 3, hour, min, 0, 0, time.UTC)
}

func TestValidateSessions(t *testing.T) {
	t.Run("valid day with break", func(t *testing.T) {
		sessions := []SessionInput{
			{
				ClockIn:  ms(at(9, 0)),
				ClockOut: ms(at(18, 0)),
				Breaks: []BreakInput{
					{Start: ms(at(12, 0)), End: ms(at(13, 0))},
				},
			},
		}
		assert.NoError(t, ValidateSessions(sessions))
	})

	t.Run("clock out before clock in", func(t *testing.T) {
		sessions := []SessionInput{
			{ClockIn: ms(at(10, 0)), ClockOut: ms(at(9, 0))},
		}
		err := ValidateSessions(sessions)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrClockOutBeforeClockIn)
		assert.Equal(t, "Clock out time must be after clock in time", err.Error())
	})

	t.Run("break end before break start", func(t *testing.T) {
		sessions := []SessionInput{
			{
				ClockIn:  ms(at(9, 0)),
				ClockOut: ms(at(18, 0)),
				Breaks: []BreakInput{
					{Start: ms(at(13, 0)), End: ms(at(12, 0))},
				},
			},
		}
		err := ValidateSessions(sessions)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBreakEndBeforeStart)
		assert.Equal(t, "Break end time must be after break start time", err.Error())
	})

	t.Run("break start before clock in", func(t *testing.T) {
		sessions := []SessionInput{
			{
				ClockIn:  ms(at(9, 0)),
				ClockOut: ms(at(18, 0)),
				Breaks: []BreakInput{
					{Start: ms(at(8, 0)), End: ms(at(8, 30))},
				},
			},
		}
		err := ValidateSessions(sessions)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBreakStartBeforeClockIn)
		assert.Equal(t, "Break start time must be after clock in time", err.Error())
	})

	t.Run("break end after clock out", func(t *testing.T) {
		sessions := []SessionInput{
			{
				ClockIn:  ms(at(9, 0)),
				ClockOut: ms(at(18, 0)),
				Breaks: []BreakInput{
					{Start: ms(at(17, 0)), End: ms(at(19, 0))},
				},
			},
		}
		err := ValidateSessions(sessions)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBreakEndAfterClockOut)
		assert.Equal(t, "Break end time must be before clock out time", err.Error())
	})

	t.Run("equal endpoints allowed", func(t *testing.T) {
		sessions := []SessionInput{
			{
				ClockIn:  ms(at(9, 0)),
				ClockOut: ms(at(9, 0)),
				Breaks: []BreakInput{
					{Start: ms(at(9, 0)), End: ms(at(9, 0))},
				},
			},
		}
		assert.NoError(t, ValidateSessions(sessions))
	})

	t.Run("open session skips clock out rules", func(t *testing.T) {
		sessions := []SessionInput{
			{
				ClockIn: ms(at(9, 0)),
				Breaks: []BreakInput{
					{Start: ms(at(12, 0))},
				},
			},
		}
		assert.NoError(t, ValidateSessions(sessions))
	})

	t.Run("rows without clock in are skipped", func(t *testing.T) {
		sessions := []SessionInput{
			{ClockOut: ms(at(18, 0))},
			{Breaks: []BreakInput{{Start: ms(at(8, 0)), End: ms(at(7, 0))}}},
		}
		assert.NoError(t, ValidateSessions(sessions))
	})

	t.Run("breaks without start are skipped", func(t *testing.T) {
		sessions := []SessionInput{
			{
				ClockIn:  ms(at(9, 0)),
				ClockOut: ms(at(18, 0)),
				Breaks: []BreakInput{
					{End: ms(at(7, 0))},
				},
			},
		}
		assert.NoError(t, ValidateSessions(sessions))
	})

	t.Run("first violation wins across sessions", func(t *testing.T) {
		sessions := []SessionInput{
			{ClockIn: ms(at(10, 0)), ClockOut: ms(at(9, 0))},
			{
				ClockIn:  ms(at(11, 0)),
				ClockOut: ms(at(12, 0)),
				Breaks: []BreakInput{
					{Start: ms(at(10, 0)), End: ms(at(10, 30))},
				},
			},
		}
		assert.ErrorIs(t, ValidateSessions(sessions), ErrClockOutBeforeClockIn)
	})
}

func TestFilterSessions(t *testing.T) {
	sessions := []SessionInput{
		{ClockIn: ms(at(9, 0)), ClockOut: ms(at(12, 0))},
		{ClockOut: ms(at(18, 0))},
		{
			ClockIn: ms(at(13, 0)),
			Breaks: []BreakInput{
				{Start: ms(at(14, 0))},
				{End: ms(at(15, 0))},
			},
		},
	}

	kept := FilterSessions(sessions)
	require.Len(t, kept, 2)
	assert.Len(t, kept[1].Breaks, 1)
}

func TestSessionsFromInput(t *testing.T) {
	inputs := []SessionInput{
		{ClockIn: ms(at(13, 0)), ClockOut: ms(at(18, 0))},
		{
			ClockIn:  ms(at(9, 0)),
			ClockOut: ms(at(12, 0)),
			Breaks: []BreakInput{
				{Start: ms(at(10, 0)), End: ms(at(10, 15))},
			},
		},
	}

	sessions := SessionsFromInput("rec-1", inputs)
	require.Len(t, sessions, 2)

	// Ordered by clock-in regardless of input order
	assert.Equal(t, at(9, 0), sessions[0].ClockIn)
	assert.Equal(t, at(13, 0), sessions[1].ClockIn)
	assert.Equal(t, "rec-1", sessions[0].RecordID)
	require.Len(t, sessions[0].Breaks, 1)
	assert.Equal(t, at(10, 0), sessions[0].Breaks[0].StartAt)
}
