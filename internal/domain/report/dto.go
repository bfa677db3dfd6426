package report

import (
	"github.com/absensi-app/attendance-backend-go/internal/pkg/validator"
)

// ExportAttendanceRequest filters the rows of an attendance export. Empty
// fields are not applied.
type ExportAttendanceRequest struct {
	UserID    *string `json:"user_id,omitempty"`
	UserName  *string `json:"user_name,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (r *ExportAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID != nil && *r.UserID != "" && !validator.IsValidUUID(*r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	var startOK, endOK bool
	if r.StartDate != nil && *r.StartDate != "" {
		if _, startOK = validator.IsValidDate(*r.StartDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.EndDate != nil && *r.EndDate != "" {
		if _, endOK = validator.IsValidDate(*r.EndDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && *r.EndDate < *r.StartDate {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// File is a generated document ready to be streamed.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}
