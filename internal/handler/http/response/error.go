package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/absensi-app/attendance-backend-go/internal/domain/attendance"
	"github.com/absensi-app/attendance-backend-go/internal/domain/auth"
	"github.com/absensi-app/attendance-backend-go/internal/domain/report"
	"github.com/absensi-app/attendance-backend-go/internal/domain/shift"
	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/validator"
)

// FromError maps domain errors to a Result. Unknown errors become
// InternalError with a generic message.
func FromError(err error) Result {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return Result{
			Kind:    BadRequest,
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			Details: validationErrs.ToMap(),
		}
	}

	switch {
	// Identity
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, attendance.ErrNotAuthenticated):
		return Result{Kind: Unauthorized, Message: err.Error()}
	case errors.Is(err, user.ErrInsufficientPermissions):
		return Result{Kind: Forbidden, Message: err.Error()}

	// Attendance state machine
	case errors.Is(err, attendance.ErrStaleAttendanceForceClosed),
		errors.Is(err, attendance.ErrConflictOpenAttendance),
		errors.Is(err, attendance.ErrOutsideGeofence),
		errors.Is(err, shift.ErrOutsideShiftWindow),
		errors.Is(err, shift.ErrNoActiveShift):
		return Result{Kind: BadRequest, Message: err.Error()}
	case errors.Is(err, attendance.ErrRecordNotFound):
		return Result{Kind: NotFound, Message: err.Error()}

	// Shifts and users
	case errors.Is(err, shift.ErrShiftNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return Result{Kind: NotFound, Message: err.Error()}
	case errors.Is(err, shift.ErrShiftNameExists),
		errors.Is(err, shift.ErrUserNotFound),
		errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, report.ErrReportTooLarge):
		return Result{Kind: BadRequest, Message: err.Error()}
	}

	return Result{Kind: InternalError, Message: "An unexpected error occurred", Err: err}
}

// HandleError writes the Result for err, logging unexpected failures.
func HandleError(w http.ResponseWriter, err error) {
	res := FromError(err)
	if res.Kind == InternalError {
		slog.Error("Request failed", "error", res.Err)
	}
	Write(w, res)
}
