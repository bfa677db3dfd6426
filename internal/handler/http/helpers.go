package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/absensi-app/attendance-backend-go/internal/domain/attendance"
	"github.com/absensi-app/attendance-backend-go/internal/handler/http/middleware"
	"github.com/absensi-app/attendance-backend-go/internal/handler/http/response"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/jwt"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/utils"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20

// claimsOrFail returns the caller's claims, writing 401 when they are missing.
func claimsOrFail(w http.ResponseWriter, r *http.Request) (jwt.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, attendance.ErrNotAuthenticated)
		return jwt.Claims{}, false
	}
	return claims, true
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		response.Fail(w, response.BadRequest, "Invalid request body")
		return false
	}
	return true
}

func queryString(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// queryInts parses optional integer query params, collecting every malformed key.
func queryInts(r *http.Request, keys ...string) (map[string]int, error) {
	out := make(map[string]int, len(keys))
	var errs validator.ValidationErrors
	for _, key := range keys {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: key, Message: key + " must be a number"})
			continue
		}
		out[key] = n
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func queryFloat(r *http.Request, key string) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, validator.ValidationErrors{{Field: key, Message: key + " is required"}}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || !utils.IsFinite(f) {
		return 0, validator.ValidationErrors{{Field: key, Message: key + " must be a number"}}
	}
	return f, nil
}

func notFound(w http.ResponseWriter) {
	response.Fail(w, response.NotFound, "Route not found")
}
