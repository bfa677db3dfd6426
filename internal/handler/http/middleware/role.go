package middleware

import (
	"fmt"
	"net/http"

	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/handler/http/response"
)

// RequirePermission checks the role claim against the permission table.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Fail(w, response.Unauthorized, "Invalid/Expired Credentials")
				return
			}

			if !user.HasPermission(claims.Role, permission) {
				response.HandleError(w, fmt.Errorf("%w: required '%s', but user role is '%s'", user.ErrInsufficientPermissions, permission, claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
