package report

import "errors"

var ErrReportTooLarge = errors.New("report exceeds the maximum number of rows; narrow the date range")
