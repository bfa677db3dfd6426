package report

import "context"

type ReportService interface {
	// ExportAttendance renders matching records, newest first, as an XLSX workbook.
	ExportAttendance(ctx context.Context, req ExportAttendanceRequest) (File, error)
}
