package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(svc *jwt.JWTService) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired(svc))
	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		c, _ := ClaimsFromContext(r.Context())
		_, _ = w.Write([]byte(c.UserID))
	})
	r.With(RequirePermission(user.PermissionShiftManage)).Get("/shifts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func do(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("middleware-secret", time.Hour)
	h := newProtectedRouter(svc)

	token, exp, err := svc.GenerateAccessToken("user-1", "guru@sekolah.id", user.RoleGuru)
	require.NoError(t, err)

	rec := do(t, h, "/me", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(t, h, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "/me", "garbage").Code)

	svc.RevokeToken(token, exp)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "/me", token).Code)
}

func TestRequirePermission(t *testing.T) {
	svc := jwt.NewJWTService("middleware-secret", time.Hour)
	h := newProtectedRouter(svc)

	guru, _, err := svc.GenerateAccessToken("user-1", "guru@sekolah.id", user.RoleGuru)
	require.NoError(t, err)
	admin, _, err := svc.GenerateAccessToken("user-2", "admin@sekolah.id", user.RoleAdmin)
	require.NoError(t, err)

	rec := do(t, h, "/shifts", guru)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient permissions: required 'shift.manage', but user role is 'guru'")
	assert.Equal(t, http.StatusOK, do(t, h, "/shifts", admin).Code)
}
