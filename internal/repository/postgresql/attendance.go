package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/domain/attendance"
	"github.com/absensi-app/attendance-backend-go/internal/domain/shift"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/database"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const openAttendanceIndex = "attendances_one_open_per_user"

const attendanceSelect = `
	SELECT a.id, a.user_id, a.shift_id, a.kehadiran, a.date, a.clock_in, a.clock_out,
		   a.check_in_location, a.check_out_location, a.note, a.created_at, a.updated_at,
		   u.name, s.name
	FROM attendances a
	JOIN users u ON u.id = a.user_id
	LEFT JOIN shifts s ON s.id = a.shift_id
`

type attendanceRepository struct {
	db *database.DB
	// timezone used for time-of-day filters
	timezone string
}

func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, timezone: loc.String()}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att       attendance.Attendance
		kehadiran *string
	)
	err := row.Scan(
		&att.ID, &att.UserID, &att.ShiftID, &kehadiran, &att.Date, &att.ClockIn, &att.ClockOut,
		&att.CheckInLocation, &att.CheckOutLocation, &att.Note, &att.CreatedAt, &att.UpdatedAt,
		&att.UserName, &att.ShiftName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if kehadiran != nil {
		k := attendance.Kehadiran(*kehadiran)
		att.Kehadiran = &k
	}
	return att, nil
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, rows.Err()
}

// isNoRecord treats malformed ids like unknown ones.
func isNoRecord(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	att.ID = id.String()

	var kehadiran *string
	if att.Kehadiran != nil {
		k := string(*att.Kehadiran)
		kehadiran = &k
	}

	query := `
		INSERT INTO attendances (
			id, user_id, shift_id, kehadiran, date, clock_in, check_in_location, note
		) VALUES (
			$1, $2, $3, $4, $5::date, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		att.ID,
		att.UserID,
		att.ShiftID,
		kehadiran,
		attendance.DateKey(att.Date),
		att.ClockIn,
		att.CheckInLocation,
		att.Note,
	).Scan(&att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, openAttendanceIndex) {
			return attendance.Attendance{}, attendance.ErrConflictOpenAttendance
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id))
	if err != nil {
		if isNoRecord(err) {
			return attendance.Attendance{}, attendance.ErrRecordNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetOpenByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetOpenByID(ctx context.Context, id string, ownerID *string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + " WHERE a.id = $1 AND a.clock_out IS NULL"
	args := []any{id}
	if ownerID != nil {
		query += " AND a.user_id = $2"
		args = append(args, *ownerID)
	}

	att, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRecord(err) {
			return attendance.Attendance{}, attendance.ErrRecordNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get open attendance: %w", err)
	}
	return att, nil
}

// ListStaleOpen implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListStaleOpen(ctx context.Context, userID string, today time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + `
		WHERE a.user_id = $1 AND a.clock_out IS NULL AND a.date < $2::date
		ORDER BY a.date ASC
	`
	rows, err := q.Query(ctx, query, userID, attendance.DateKey(today))
	if err != nil {
		return nil, fmt.Errorf("failed to query stale attendances: %w", err)
	}
	result, err := collectAttendances(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan stale attendances: %w", err)
	}
	return result, nil
}

// GetOpenOnDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetOpenOnDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + `
		WHERE a.user_id = $1 AND a.date = $2::date AND a.clock_out IS NULL
		ORDER BY a.clock_in DESC
		LIMIT 1
	`
	att, err := scanAttendance(q.QueryRow(ctx, query, userID, attendance.DateKey(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance: %w", err)
	}
	return &att, nil
}

// LatestForShift implements attendance.AttendanceRepository.
func (r *attendanceRepository) LatestForShift(ctx context.Context, userID, shiftID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + `
		WHERE a.user_id = $1 AND a.shift_id = $2 AND a.date = $3::date
		ORDER BY a.clock_in DESC
		LIMIT 1
	`
	att, err := scanAttendance(q.QueryRow(ctx, query, userID, shiftID, attendance.DateKey(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift attendance: %w", err)
	}
	return &att, nil
}

// Close implements attendance.AttendanceRepository.
func (r *attendanceRepository) Close(ctx context.Context, id string, clockOut time.Time, location string, note *string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET clock_out = $2,
			check_out_location = $3,
			note = COALESCE($4, note),
			updated_at = NOW()
		WHERE id = $1 AND clock_out IS NULL
	`
	tag, err := q.Exec(ctx, query, id, clockOut, location, note)
	if err != nil {
		if isNoRecord(err) {
			return attendance.Attendance{}, attendance.ErrRecordNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to close attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.ListAttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []any{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.UserName != nil && *filter.UserName != "" {
		baseWhere += fmt.Sprintf(" AND u.name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.UserName+"%")
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d::date", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.ClockIn != nil && *filter.ClockIn != "" {
		c, err := shift.ParseClock(*filter.ClockIn)
		if err != nil {
			return nil, 0, err
		}
		baseWhere += fmt.Sprintf(" AND date_trunc('second', a.clock_in AT TIME ZONE $%d)::time = $%d::time", argIdx, argIdx+1)
		args = append(args, r.timezone, c.String())
		argIdx += 2
	}
	if filter.ClockOut != nil && *filter.ClockOut != "" {
		c, err := shift.ParseClock(*filter.ClockOut)
		if err != nil {
			return nil, 0, err
		}
		baseWhere += fmt.Sprintf(" AND date_trunc('second', a.clock_out AT TIME ZONE $%d)::time = $%d::time", argIdx, argIdx+1)
		args = append(args, r.timezone, c.String())
		argIdx += 2
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE ` + baseWhere

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	sortOrder := "ASC"
	if filter.SortDesc {
		sortOrder = "DESC"
	}
	query := fmt.Sprintf("%s WHERE %s ORDER BY a.date %s, a.clock_in %s", attendanceSelect, baseWhere, sortOrder, sortOrder)

	if !filter.Unpaged {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.PageSize, pagination.Offset(filter.Page, filter.PageSize))
	} else if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	result, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan attendances: %w", err)
	}

	return result, total, nil
}

// ListAllStaleOpen implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListAllStaleOpen(ctx context.Context, today time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + `
		WHERE a.clock_out IS NULL AND a.date < $1::date
		ORDER BY a.date ASC
	`
	rows, err := q.Query(ctx, query, attendance.DateKey(today))
	if err != nil {
		return nil, fmt.Errorf("failed to query stale attendances: %w", err)
	}
	result, err := collectAttendances(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan stale attendances: %w", err)
	}
	return result, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM attendances WHERE id = $1", id)
	if err != nil {
		if isNoRecord(err) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// LockUser implements attendance.AttendanceRepository.
func (r *attendanceRepository) LockUser(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", userID); err != nil {
		return fmt.Errorf("failed to lock user attendance: %w", err)
	}
	return nil
}
