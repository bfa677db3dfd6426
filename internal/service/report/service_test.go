package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/domain/attendance"
	"github.com/absensi-app/attendance-backend-go/internal/domain/report"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var wib = time.FixedZone("WIB", 7*3600)

type listOnlyRepo struct {
	attendance.AttendanceRepository
	records []attendance.Attendance
	got     attendance.ListAttendanceFilter
}

func (r *listOnlyRepo) List(ctx context.Context, filter attendance.ListAttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.got = filter
	records := r.records
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, int64(len(r.records)), nil
}

func strPtr(s string) *string { return &s }

func TestExportAttendance(t *testing.T) {
	out := time.Date(2024, 12, 28, 12, 5, 0, 0, wib)
	repo := &listOnlyRepo{records: []attendance.Attendance{
		{
			ID:               "a2",
			UserName:         strPtr("Budi"),
			ShiftName:        strPtr("Pagi"),
			Date:             time.Date(2024, 12, 28, 0, 0, 0, 0, wib),
			ClockIn:          time.Date(2024, 12, 28, 7, 0, 0, 0, wib),
			ClockOut:         &out,
			CheckInLocation:  "-6.2,106.8",
			CheckOutLocation: strPtr("-6.2,106.8"),
		},
		{
			ID:              "a1",
			UserName:        strPtr("Siti"),
			Date:            time.Date(2024, 12, 27, 0, 0, 0, 0, wib),
			ClockIn:         time.Date(2024, 12, 27, 8, 3, 0, 0, wib),
			CheckInLocation: "1,1",
		},
	}}
	svc := NewReportService(repo, wib)

	file, err := svc.ExportAttendance(context.Background(), report.ExportAttendanceRequest{StartDate: strPtr("2024-12-01")})
	require.NoError(t, err)
	assert.Equal(t, xlsxMimeType, file.ContentType)
	assert.Contains(t, file.Name, ".xlsx")

	assert.True(t, repo.got.SortDesc)
	assert.True(t, repo.got.Unpaged)
	assert.Equal(t, maxExportRows+1, repo.got.Limit)
	require.NotNil(t, repo.got.StartDate)
	assert.Equal(t, "2024-12-01", *repo.got.StartDate)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"1", "Budi", "2024-12-28", "Pagi", "07:00:00", "12:05:00", "-6.2,106.8", "-6.2,106.8"}, rows[1])
	assert.Equal(t, "Siti", rows[2][1])
	assert.Equal(t, "-", rows[2][5])
}

func TestExportAttendance_InvalidRange(t *testing.T) {
	svc := NewReportService(&listOnlyRepo{}, wib)

	_, err := svc.ExportAttendance(context.Background(), report.ExportAttendanceRequest{
		StartDate: strPtr("2024-12-31"),
		EndDate:   strPtr("2024-12-01"),
	})
	assert.Error(t, err)
}

func TestExportAttendance_RowCap(t *testing.T) {
	day := time.Date(2024, 12, 28, 0, 0, 0, 0, wib)
	records := make([]attendance.Attendance, 3)
	for i := range records {
		records[i] = attendance.Attendance{ID: "a", Date: day, ClockIn: day.Add(7 * time.Hour), CheckInLocation: "1,1"}
	}
	repo := &listOnlyRepo{records: records}
	svc := NewReportService(repo, wib).(*ReportServiceImpl)

	svc.maxRows = 2
	_, err := svc.ExportAttendance(context.Background(), report.ExportAttendanceRequest{})
	assert.ErrorIs(t, err, report.ErrReportTooLarge)
	assert.Equal(t, 3, repo.got.Limit, "rows are capped one past the limit")

	svc.maxRows = 3
	file, err := svc.ExportAttendance(context.Background(), report.ExportAttendanceRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, file.Content)
	assert.Equal(t, 4, repo.got.Limit)
}

func TestExportAttendance_InvalidUserID(t *testing.T) {
	repo := &listOnlyRepo{}
	svc := NewReportService(repo, wib)

	_, err := svc.ExportAttendance(context.Background(), report.ExportAttendanceRequest{UserID: strPtr("42")})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "user_id must be a valid UUID", verrs.ToMap()["user_id"])
	assert.Zero(t, repo.got.Limit, "repository is not queried")

	_, err = svc.ExportAttendance(context.Background(), report.ExportAttendanceRequest{UserID: strPtr("0193f1a0-0000-7000-8000-000000000001")})
	require.NoError(t, err)
}
