package shift

import "errors"

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftNameExists    = errors.New("shift name already exists")
	ErrUserNotFound       = errors.New("one or more users not found")
	ErrNoActiveShift      = errors.New("no active shift at this time")
	ErrOutsideShiftWindow = errors.New("outside the allowed shift window")
)
