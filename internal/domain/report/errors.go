package report

import "errors"

// Report domain errors
var (
	ErrReportNotFound = errors.New("daily report not found")
)
