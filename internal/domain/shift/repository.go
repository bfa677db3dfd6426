package shift

import "context"

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	GetByName(ctx context.Context, name string) (Shift, error)
	// List returns all shifts ordered by start time.
	List(ctx context.Context) ([]Shift, error)
	Update(ctx context.Context, s Shift) error
	Delete(ctx context.Context, id string) error

	// ListByUser returns the shifts assigned to a user, ordered by start time.
	ListByUser(ctx context.Context, userID string) ([]Shift, error)
	// ReplaceUsers sets the complete list of users assigned to a shift.
	ReplaceUsers(ctx context.Context, shiftID string, userIDs []string) error
	ListUserIDs(ctx context.Context, shiftID string) ([]string, error)
}
