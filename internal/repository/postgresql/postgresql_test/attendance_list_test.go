package postgresql_test

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/absensi-app/attendance-backend-go/internal/domain/attendance"
	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAttendanceRepository_ListFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	repo := postgresql.NewAttendanceRepository(db, jakarta)
	budi := createUser(t, db, "budi", user.RoleKaryawan)
	siti := createUser(t, db, "siti", user.RoleGuru)

	seed := func(userID string, day int, in time.Time, out *time.Time) attendance.Attendance {
		t.Helper()
		rec, err := repo.Create(ctx, attendance.Attendance{
			UserID:          userID,
			Date:            time.Date(2024, 12, day, 0, 0, 0, 0, time.UTC),
			ClockIn:         in,
			CheckInLocation: "1,1",
		})
		require.NoError(t, err)
		if out != nil {
			rec, err = repo.Close(ctx, rec.ID, *out, "2,2", nil)
			require.NoError(t, err)
		}
		return rec
	}
	at := func(day, h, m, s, ms int) time.Time {
		return time.Date(2024, 12, day, h, m, s, ms*int(time.Millisecond), jakarta)
	}
	ptr := func(v time.Time) *time.Time { return &v }

	seed(budi.ID, 1, at(1, 7, 0, 0, 0), ptr(at(1, 12, 0, 0, 0)))
	budiLate := seed(budi.ID, 2, at(2, 8, 15, 30, 250), ptr(at(2, 16, 0, 0, 0)))
	sitiLast := seed(siti.ID, 3, at(3, 7, 0, 0, 0), ptr(at(3, 12, 0, 0, 0)))
	seed(siti.ID, 2, at(2, 8, 15, 30, 0), nil)

	list := func(t *testing.T, f attendance.ListAttendanceFilter) ([]attendance.Attendance, int64) {
		t.Helper()
		if !f.Unpaged {
			f.Page, f.PageSize = 1, 10
		}
		recs, total, err := repo.List(ctx, f)
		require.NoError(t, err)
		return recs, total
	}

	t.Run("jam_masuk matches the local time of day to the second", func(t *testing.T) {
		_, total := list(t, attendance.ListAttendanceFilter{ClockIn: strPtr("08:15:30")})
		assert.Equal(t, int64(2), total)

		_, total = list(t, attendance.ListAttendanceFilter{ClockIn: strPtr("07:00")})
		assert.Equal(t, int64(2), total)

		_, total = list(t, attendance.ListAttendanceFilter{ClockIn: strPtr("00:00:00")})
		assert.Equal(t, int64(0), total, "clock_in is compared in local time, not UTC")
	})

	t.Run("jam_keluar skips open records", func(t *testing.T) {
		recs, total := list(t, attendance.ListAttendanceFilter{ClockOut: strPtr("12:00:00")})
		assert.Equal(t, int64(2), total)
		for _, r := range recs {
			require.NotNil(t, r.ClockOut)
		}

		recs, total = list(t, attendance.ListAttendanceFilter{ClockIn: strPtr("08:15:30"), ClockOut: strPtr("16:00:00")})
		assert.Equal(t, int64(1), total)
		require.Len(t, recs, 1)
		assert.Equal(t, budiLate.ID, recs[0].ID)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		_, total := list(t, attendance.ListAttendanceFilter{StartDate: strPtr("2024-12-02"), EndDate: strPtr("2024-12-02")})
		assert.Equal(t, int64(2), total)

		_, total = list(t, attendance.ListAttendanceFilter{StartDate: strPtr("2024-12-02")})
		assert.Equal(t, int64(3), total)

		_, total = list(t, attendance.ListAttendanceFilter{EndDate: strPtr("2024-12-01")})
		assert.Equal(t, int64(1), total)
	})

	t.Run("user filters", func(t *testing.T) {
		recs, total := list(t, attendance.ListAttendanceFilter{UserName: strPtr("SIT")})
		assert.Equal(t, int64(2), total)
		for _, r := range recs {
			assert.Equal(t, siti.ID, r.UserID)
		}

		_, total = list(t, attendance.ListAttendanceFilter{UserID: &budi.ID})
		assert.Equal(t, int64(2), total)
	})

	t.Run("limit caps an unpaged listing but not the total", func(t *testing.T) {
		recs, total := list(t, attendance.ListAttendanceFilter{Unpaged: true, SortDesc: true, Limit: 1})
		assert.Equal(t, int64(4), total)
		require.Len(t, recs, 1)
		assert.Equal(t, sitiLast.ID, recs[0].ID)

		recs, _ = list(t, attendance.ListAttendanceFilter{Unpaged: true})
		assert.Len(t, recs, 4)
	})
}
