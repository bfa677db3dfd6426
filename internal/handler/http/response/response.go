package response

import (
	"encoding/json"
	"net/http"
)

// Kind tags the outcome of a request. The set is closed.
type Kind int

const (
	Ok Kind = iota
	Created
	NoContent
	BadRequest
	Unauthorized
	Forbidden
	NotFound
	InternalError
	NotImplemented
)

var kindStatus = [...]int{
	Ok:             http.StatusOK,
	Created:        http.StatusCreated,
	NoContent:      http.StatusNoContent,
	BadRequest:     http.StatusBadRequest,
	Unauthorized:   http.StatusUnauthorized,
	Forbidden:      http.StatusForbidden,
	NotFound:       http.StatusNotFound,
	InternalError:  http.StatusInternalServerError,
	NotImplemented: http.StatusNotImplemented,
}

var kindCode = [...]string{
	BadRequest:     "BAD_REQUEST",
	Unauthorized:   "UNAUTHORIZED",
	Forbidden:      "FORBIDDEN",
	NotFound:       "NOT_FOUND",
	InternalError:  "INTERNAL_SERVER_ERROR",
	NotImplemented: "NOT_IMPLEMENTED",
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	if k < 0 || int(k) >= len(kindStatus) {
		return http.StatusInternalServerError
	}
	return kindStatus[k]
}

// IsError reports whether k is a failure kind.
func (k Kind) IsError() bool {
	return k.Status() >= http.StatusBadRequest
}

func (k Kind) code() string {
	if k < 0 || int(k) >= len(kindCode) || kindCode[k] == "" {
		return "INTERNAL_SERVER_ERROR"
	}
	return kindCode[k]
}

// Result is the single value every handler produces.
type Result struct {
	Kind    Kind
	Message string
	Data    interface{}
	// Err is logged for InternalError and never sent to the client.
	Err error
	// Code overrides the default error code of Kind.
	Code    string
	Details map[string]string
	Meta    *Meta
}

type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type Meta struct {
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"page_size,omitempty"`
	TotalItems int64 `json:"total_items,omitempty"`
	TotalPages int   `json:"total_pages,omitempty"`
}

// Envelope renders r as the JSON body sent to clients.
func (r Result) Envelope() Response {
	if !r.Kind.IsError() {
		return Response{
			Success: true,
			Message: r.Message,
			Data:    r.Data,
			Meta:    r.Meta,
		}
	}

	code := r.Code
	if code == "" {
		code = r.Kind.code()
	}
	return Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: r.Message,
			Details: r.Details,
		},
	}
}

// Write sends r. NoContent writes only the status line.
func Write(w http.ResponseWriter, r Result) {
	if r.Kind == NoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r.Kind.Status(), r.Envelope())
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fallback := Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    "ENCODING_ERROR",
				Message: "Failed to encode response",
			},
		}
		_ = json.NewEncoder(w).Encode(fallback)
	}
}

// Shorthands for the common results.

func Success(w http.ResponseWriter, data interface{}) {
	Write(w, Result{Kind: Ok, Data: data})
}

func SuccessWithMessage(w http.ResponseWriter, message string, data interface{}) {
	Write(w, Result{Kind: Ok, Message: message, Data: data})
}

func CreatedWithMessage(w http.ResponseWriter, message string, data interface{}) {
	Write(w, Result{Kind: Created, Message: message, Data: data})
}

func Fail(w http.ResponseWriter, kind Kind, message string) {
	Write(w, Result{Kind: kind, Message: message})
}
