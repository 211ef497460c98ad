// Package response writes the dev server's JSON envelopes. Every API
// response carries a data field on success or an error field on failure.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/docsite/pkg/errors"
)

// Response is the API envelope.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error is the error half of the envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing useful to do on encode failure.
	_ = json.NewEncoder(w).Encode(resp)
}

// JavaScript writes an ES module body.
func JavaScript(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(code))
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// Unauthorized writes a 401 error response.
func Unauthorized(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusUnauthorized, Fail("UNAUTHORIZED", message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(
		"METHOD_NOT_ALLOWED",
		"Method not allowed",
		"Method "+method+" is not supported for this endpoint",
	))
}

// Conflict writes a 409 error response.
func Conflict(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusConflict, Fail("CONFLICT", message, details))
}

// RateLimited writes a 429 error response.
func RateLimited(w http.ResponseWriter, message string) {
	JSON(w, http.StatusTooManyRequests, Fail("RATE_LIMITED", "Rate limit exceeded", message))
}

// InternalError writes a 500 error response without leaking err to the client.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(
		"INTERNAL_ERROR",
		"Internal server error",
		"An unexpected error occurred",
	))
}

// ServiceUnavailable writes a 503 error response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail("SERVICE_UNAVAILABLE", "Service unavailable", message))
}

// ErrorFromType maps typed errors to HTTP responses. Joined errors are
// matched on any member, so a config with several problems is still a 400.
func ErrorFromType(w http.ResponseWriter, err error) {
	var (
		parseErr   *errors.ParseError
		processErr *errors.ProcessError
	)
	switch {
	case errors.IsNotFound(err):
		NotFound(w, err.Error(), "")
	case errors.As(err, &parseErr):
		BadRequest(w, "Invalid site configuration", parseErr.Error())
	case errors.IsValidationError(err):
		BadRequest(w, "Invalid site configuration", err.Error())
	case errors.IsAlreadyExists(err):
		Conflict(w, err.Error(), "")
	case errors.IsInProgress(err):
		Conflict(w, "Already running", err.Error())
	case errors.IsDependencyMissing(err):
		ServiceUnavailable(w, err.Error())
	case errors.As(err, &processErr):
		// The dev server is local; the build log is what the author needs.
		JSON(w, http.StatusInternalServerError, Fail("BUILD_FAILED", "Site build failed", processErr.Output))
	default:
		InternalError(w, err)
	}
}
