package dashboard

import (
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/pkg/validator"
)

// RangeRequest selects an inclusive date range. UserID restricts the
// aggregate to one user; nil means all users.
type RangeRequest struct {
	UserID    *string `json:"user_id,omitempty"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`

	start time.Time
	end   time.Time
}

func (r *RangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID != nil && !validator.IsValidUUID(*r.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if okStart && okEnd && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	if err := errs.Err(); err != nil {
		return err
	}
	r.start, r.end = start, end
	return nil
}

// Range returns the parsed bounds; valid after Validate.
func (r *RangeRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

type CountResponse struct {
	Count     int64  `json:"count"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type DayVolumeResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type VolumeResponse struct {
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Days      []DayVolumeResponse `json:"days"`
}

type SummaryResponse struct {
	Count     int64               `json:"count"`
	OpenNow   int64               `json:"open_now"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Days      []DayVolumeResponse `json:"days"`
}
