package shift

import "context"

type ShiftService interface {
	Create(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	GetByID(ctx context.Context, id string) (ShiftResponse, error)
	List(ctx context.Context) ([]ShiftResponse, error)
	Update(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	Delete(ctx context.Context, id string) error

	// AssignUsers replaces the set of users working a shift.
	AssignUsers(ctx context.Context, req AssignUsersRequest) (ShiftResponse, error)
	// MyShifts lists the shifts assigned to the authenticated user.
	MyShifts(ctx context.Context, userID string) ([]ShiftResponse, error)
}
