package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context, userID string) (MeResponse, error)
	// Logout revokes the given access token until it expires.
	Logout(ctx context.Context, token string, expiresAt int64) error
}
