package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/absensi-app/attendance-backend-go/internal/domain/shift"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const shiftColumns = "s.id, s.name, s.start_time::text, s.end_time::text, s.created_at, s.updated_at"

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var (
		s          shift.Shift
		start, end string
	)
	if err := row.Scan(&s.ID, &s.Name, &start, &end, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return shift.Shift{}, err
	}

	var err error
	if s.StartTime, err = shift.ParseClock(start); err != nil {
		return shift.Shift{}, err
	}
	if s.EndTime, err = shift.ParseClock(end); err != nil {
		return shift.Shift{}, err
	}
	return s, nil
}

func (r *shiftRepositoryImpl) queryShifts(ctx context.Context, query string, args ...any) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to generate shift id: %w", err)
	}
	s.ID = id.String()

	query := `
		INSERT INTO shifts (id, name, start_time, end_time)
		VALUES ($1, $2, $3::time, $4::time)
		RETURNING created_at, updated_at
	`
	err = q.QueryRow(ctx, query, s.ID, s.Name, s.StartTime.String(), s.EndTime.String()).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return shift.Shift{}, shift.ErrShiftNameExists
		}
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, "SELECT "+shiftColumns+" FROM shifts s WHERE s.id = $1", id))
	if err != nil {
		if isNoRecord(err) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

// GetByName implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByName(ctx context.Context, name string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, "SELECT "+shiftColumns+" FROM shifts s WHERE LOWER(s.name) = LOWER($1)", name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by name: %w", err)
	}
	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]shift.Shift, error) {
	shifts, err := r.queryShifts(ctx, "SELECT "+shiftColumns+" FROM shifts s ORDER BY s.start_time ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET name = $2, start_time = $3::time, end_time = $4::time, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, s.ID, s.Name, s.StartTime.String(), s.EndTime.String())
	if err != nil {
		if isUniqueViolation(err, "") {
			return shift.ErrShiftNameExists
		}
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM shifts WHERE id = $1", id)
	if err != nil {
		if isNoRecord(err) {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// ListByUser implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]shift.Shift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN user_shifts us ON us.shift_id = s.id
		WHERE us.user_id = $1
		ORDER BY s.start_time ASC
	`
	shifts, err := r.queryShifts(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user shifts: %w", err)
	}
	return shifts, nil
}

// ReplaceUsers implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ReplaceUsers(ctx context.Context, shiftID string, userIDs []string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, "DELETE FROM user_shifts WHERE shift_id = $1", shiftID); err != nil {
		return fmt.Errorf("failed to clear shift users: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO user_shifts (user_id, shift_id)
		SELECT DISTINCT unnest($2::uuid[]), $1::uuid
	`
	if _, err := q.Exec(ctx, query, shiftID, userIDs); err != nil {
		if isForeignKeyViolation(err) {
			return shift.ErrUserNotFound
		}
		return fmt.Errorf("failed to assign shift users: %w", err)
	}
	return nil
}

// ListUserIDs implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListUserIDs(ctx context.Context, shiftID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, "SELECT user_id::text FROM user_shifts WHERE shift_id = $1 ORDER BY user_id", shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift users: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan shift users: %w", err)
	}
	return ids, nil
}
