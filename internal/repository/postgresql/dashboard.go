package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/domain/dashboard"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

func rangeWhere(userID *string, start, end time.Time) (string, []any) {
	where := "date >= $1::date AND date <= $2::date"
	args := []any{start.Format("2006-01-02"), end.Format("2006-01-02")}
	if userID != nil {
		where += " AND user_id = $3"
		args = append(args, *userID)
	}
	return where, args
}

// CountInRange implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountInRange(ctx context.Context, userID *string, start, end time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := rangeWhere(userID, start, end)

	var count int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendances WHERE "+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendances in range: %w", err)
	}
	return count, nil
}

// VolumeByDay implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) VolumeByDay(ctx context.Context, userID *string, start, end time.Time) ([]dashboard.DayVolume, error) {
	q := GetQuerier(ctx, r.db)

	where, args := rangeWhere(userID, start, end)
	query := `
		SELECT date, COUNT(*)
		FROM attendances
		WHERE ` + where + `
		GROUP BY date
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance volume: %w", err)
	}
	defer rows.Close()

	var result []dashboard.DayVolume
	for rows.Next() {
		var v dashboard.DayVolume
		if err := rows.Scan(&v.Date, &v.Count); err != nil {
			return nil, fmt.Errorf("failed to scan attendance volume: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance volume: %w", err)
	}
	return result, nil
}

// CountOpen implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountOpen(ctx context.Context, userID *string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT COUNT(*) FROM attendances WHERE clock_out IS NULL"
	args := []any{}
	if userID != nil {
		query += " AND user_id = $1"
		args = append(args, *userID)
	}

	var count int64
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open attendances: %w", err)
	}
	return count, nil
}
