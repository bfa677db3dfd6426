package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/domain/attendance"
	"github.com/absensi-app/attendance-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName      = "Absensi"
	xlsxMimeType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxExportRows  = 50000
	exportDateTime = "20060102-150405"
)

var headers = []string{"No", "Nama", "Tanggal", "Shift", "Jam Masuk", "Jam Keluar", "Lokasi Masuk", "Lokasi Keluar", "Keterangan"}

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	loc            *time.Location
	now            func() time.Time
	maxRows        int
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, loc *time.Location) report.ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		loc:            loc,
		now:            time.Now,
		maxRows:        maxExportRows,
	}
}

// ExportAttendance implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, req report.ExportAttendanceRequest) (report.File, error) {
	if err := req.Validate(); err != nil {
		return report.File{}, err
	}

	records, total, err := s.attendanceRepo.List(ctx, attendance.ListAttendanceFilter{
		UserID:    req.UserID,
		UserName:  req.UserName,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		SortDesc:  true,
		Unpaged:   true,
		Limit:     s.maxRows + 1,
	})
	if err != nil {
		return report.File{}, fmt.Errorf("failed to load attendances: %w", err)
	}
	if total > int64(s.maxRows) || len(records) > s.maxRows {
		return report.File{}, report.ErrReportTooLarge
	}

	content, err := s.render(records)
	if err != nil {
		return report.File{}, fmt.Errorf("failed to render workbook: %w", err)
	}

	slog.Info("Attendance report exported", "rows", len(records))

	return report.File{
		Name:        fmt.Sprintf("absensi-%s.xlsx", s.now().In(s.loc).Format(exportDateTime)),
		ContentType: xlsxMimeType,
		Content:     content,
	}, nil
}

func (s *ReportServiceImpl) render(records []attendance.Attendance) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := sw.SetColWidth(2, 2, 28); err != nil {
		return nil, err
	}
	if err := sw.SetColWidth(7, 9, 24); err != nil {
		return nil, err
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", row); err != nil {
		return nil, err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, s.row(i+1, rec)); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportServiceImpl) row(no int, rec attendance.Attendance) []interface{} {
	return []interface{}{
		no,
		deref(rec.UserName),
		attendance.DateKey(rec.Date),
		deref(rec.ShiftName),
		rec.ClockIn.In(s.loc).Format("15:04:05"),
		clockOut(rec.ClockOut, s.loc),
		rec.CheckInLocation,
		deref(rec.CheckOutLocation),
		deref(rec.Note),
	}
}

func clockOut(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("15:04:05")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
