package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/domain/attendance"
	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

func TestAttendanceRepository_OneOpenRecordPerUser(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db, wib)
	budi := createUser(t, db, "budi", user.RoleKaryawan)

	day := time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC)
	first, err := repo.Create(ctx, attendance.Attendance{
		UserID:          budi.ID,
		Date:            day,
		ClockIn:         time.Date(2024, 12, 28, 7, 0, 0, 0, wib),
		CheckInLocation: "1,1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = repo.Create(ctx, attendance.Attendance{
		UserID:          budi.ID,
		Date:            day,
		ClockIn:         time.Date(2024, 12, 28, 7, 5, 0, 0, wib),
		CheckInLocation: "1,1",
	})
	assert.ErrorIs(t, err, attendance.ErrConflictOpenAttendance)

	open, err := repo.GetOpenOnDate(ctx, budi.ID, day)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, first.ID, open.ID)
	require.NotNil(t, open.UserName)
	assert.Equal(t, "budi", *open.UserName)

	closed, err := repo.Close(ctx, first.ID, time.Date(2024, 12, 28, 12, 0, 0, 0, wib), "2,2", nil)
	require.NoError(t, err)
	require.NotNil(t, closed.ClockOut)
	assert.False(t, closed.IsOpen())

	_, err = repo.Close(ctx, first.ID, time.Date(2024, 12, 28, 12, 1, 0, 0, wib), "2,2", nil)
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	// A closed record frees the slot.
	_, err = repo.Create(ctx, attendance.Attendance{
		UserID:          budi.ID,
		Date:            day,
		ClockIn:         time.Date(2024, 12, 28, 13, 0, 0, 0, wib),
		CheckInLocation: "1,1",
	})
	assert.NoError(t, err)
}

func TestAttendanceRepository_StaleAndOwnership(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db, wib)
	budi := createUser(t, db, "budi", user.RoleKaryawan)
	siti := createUser(t, db, "siti", user.RoleGuru)

	stale, err := repo.Create(ctx, attendance.Attendance{
		UserID:          budi.ID,
		Date:            time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC),
		ClockIn:         time.Date(2024, 12, 27, 8, 3, 0, 0, wib),
		CheckInLocation: "1,1",
	})
	require.NoError(t, err)

	today := time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC)
	list, err := repo.ListStaleOpen(ctx, budi.ID, today)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, stale.ID, list[0].ID)

	all, err := repo.ListAllStaleOpen(ctx, today)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.GetOpenByID(ctx, stale.ID, &siti.ID)
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	got, err := repo.GetOpenByID(ctx, stale.ID, &budi.ID)
	require.NoError(t, err)
	assert.Equal(t, stale.ID, got.ID)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestAttendanceRepository_LockSerializesCheckIns(t *testing.T) {
	db := openTestDB(t)
	repo := postgresql.NewAttendanceRepository(db, wib)
	tx := postgresql.NewTransactor(db)
	budi := createUser(t, db, "budi", user.RoleKaryawan)

	day := time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC)
	checkIn := func(ctx context.Context) error {
		if err := repo.LockUser(ctx, budi.ID); err != nil {
			return err
		}
		open, err := repo.GetOpenOnDate(ctx, budi.ID, day)
		if err != nil {
			return err
		}
		if open != nil {
			return attendance.ErrConflictOpenAttendance
		}
		_, err = repo.Create(ctx, attendance.Attendance{
			UserID:          budi.ID,
			Date:            day,
			ClockIn:         time.Date(2024, 12, 28, 7, 0, 0, 0, wib),
			CheckInLocation: "1,1",
		})
		return err
	}

	const callers = 5
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = tx.WithinTransaction(context.Background(), checkIn)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, attendance.ErrConflictOpenAttendance):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)

	var open int
	require.NoError(t, db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM attendances WHERE user_id = $1 AND clock_out IS NULL", budi.ID).Scan(&open))
	assert.Equal(t, 1, open)
}
