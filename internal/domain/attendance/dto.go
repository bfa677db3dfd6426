package attendance

import (
	"github.com/absensi-app/attendance-backend-go/internal/domain/shift"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/pagination"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/utils"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT
// ========================================

// Matches the width of the check_in_location and check_out_location columns.
const maxLocationLength = 100

type CheckInRequest struct {
	UserID    string  `json:"-"`
	Location  string  `json:"location"`
	Note      *string `json:"note,omitempty"`
	Kehadiran *string `json:"kehadiran,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Location) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is required",
		})
	} else if len(r.Location) > maxLocationLength {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 100 characters",
		})
	} else if _, _, err := utils.ParseCoordinate(r.Location); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must be \"lat,lon\" in decimal degrees",
		})
	}

	if r.Note != nil && len(*r.Note) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 255 characters",
		})
	}

	if r.Kehadiran != nil && !validator.IsInSlice(*r.Kehadiran, ValidKehadiran) {
		errs = append(errs, validator.ValidationError{
			Field:   "kehadiran",
			Message: "kehadiran must be one of: hadir, terlambat, alpa, cuti",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	ID       string `json:"-"`
	UserID   string `json:"-"`
	Location string `json:"location"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if validator.IsEmpty(r.Location) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is required",
		})
	} else if len(r.Location) > maxLocationLength {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 100 characters",
		})
	} else if _, _, err := utils.ParseCoordinate(r.Location); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must be \"lat,lon\" in decimal degrees",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	UserName         *string `json:"user_name,omitempty"`
	ShiftID          *string `json:"shift_id"`
	ShiftName        *string `json:"shift_name,omitempty"`
	Kehadiran        *string `json:"kehadiran"`
	Date             string  `json:"date"`
	CheckInTime      string  `json:"check_in_time"`
	CheckOutTime     *string `json:"check_out_time"`
	CheckInLocation  string  `json:"check_in_location"`
	CheckOutLocation *string `json:"check_out_location"`
	Note             *string `json:"note"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// ========================================
// ELIGIBILITY / LOCATION
// ========================================

type EligibilityResponse struct {
	Shift       *shift.ShiftResponse `json:"shift"`
	CanCheckIn  bool                 `json:"can_check_in"`
	CanCheckOut bool                 `json:"can_check_out"`
	WindowStart *string              `json:"window_start,omitempty"`
	WindowEnd   *string              `json:"window_end,omitempty"`
	Now         string               `json:"now"`
}

type CheckLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *CheckLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !utils.IsFinite(r.Latitude) || r.Latitude < -90 || r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !utils.IsFinite(r.Longitude) || r.Longitude < -180 || r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckLocationResponse struct {
	DistanceKm   float64 `json:"distance_km"`
	RadiusKm     float64 `json:"radius_km"`
	WithinRadius bool    `json:"within_radius"`
}

// ========================================
// LISTING
// ========================================

type ListAttendanceFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	UserName  *string `json:"user_name,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	ClockIn   *string `json:"jam_masuk,omitempty"`  // HH:MM:SS
	ClockOut  *string `json:"jam_keluar,omitempty"` // HH:MM:SS

	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// Newest first; used by exports.
	SortDesc bool `json:"-"`
	// Return every matching row without LIMIT/OFFSET.
	Unpaged bool `json:"-"`
	// Caps an unpaged listing; zero means no cap.
	Limit int `json:"-"`
}

func (f *ListAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.UserID != nil && *f.UserID != "" && !validator.IsValidUUID(*f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if !f.Unpaged {
		if f.Page < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "page",
				Message: "page must be a positive number",
			})
		}
		if f.Page == 0 {
			f.Page = 1
		}

		if f.PageSize < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "page_size",
				Message: "page_size must be a positive number",
			})
		}
		if f.PageSize == 0 {
			f.PageSize = pagination.DefaultPageSize
		}
		if f.PageSize > pagination.MaxPageSize {
			errs = append(errs, validator.ValidationError{
				Field:   "page_size",
				Message: "page_size must not exceed 100",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.ClockIn != nil && *f.ClockIn != "" && !validator.IsValidClock(*f.ClockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "jam_masuk",
			Message: "jam_masuk must be in HH:MM:SS format",
		})
	}
	if f.ClockOut != nil && *f.ClockOut != "" && !validator.IsValidClock(*f.ClockOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "jam_keluar",
			Message: "jam_keluar must be in HH:MM:SS format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListAttendanceResponse struct {
	Count     int64                `json:"count"`
	PageCount int                  `json:"page_count"`
	PageSize  int                  `json:"page_size"`
	Page      int                  `json:"page"`
	Results   []AttendanceResponse `json:"results"`
}
