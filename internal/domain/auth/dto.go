package auth

import "github.com/absensi-app/attendance-backend-go/internal/pkg/validator"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks presence and shape only; credentials are verified by the service.
func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	switch {
	case validator.IsEmpty(r.Email):
		errs.Add("email", "email is required")
	case len(r.Email) > 100:
		errs.Add("email", "email must not exceed 100 characters")
	case !validator.IsValidEmail(r.Email):
		errs.Add("email", "email must be a valid email address")
	}

	switch {
	case validator.IsEmpty(r.Password):
		errs.Add("password", "password is required")
	case len(r.Password) > 72:
		errs.Add("password", "password must not exceed 72 characters")
	}

	return errs.Err()
}

type TokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
	TokenType            string `json:"token_type"`
}

// MeResponse describes the authenticated user and what the role allows.
type MeResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}
