package user

import "context"

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	List(ctx context.Context, filter UserFilter) (ListUserResponse, error)
	// EnsureAdmin creates the admin account when no user with that email exists.
	EnsureAdmin(ctx context.Context, name, email, password string) error
}
