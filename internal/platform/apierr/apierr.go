package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine readable codes carried in error responses.
const (
	CodeBadRequest          = "bad_request"
	CodeUnauthorized        = "unauthorized"
	CodeNotFound            = "not_found"
	CodeConflict            = "conflict"
	CodePayloadTooLarge     = "payload_too_large"
	CodeRateLimited         = "rate_limited"
	CodeServiceUnavailable  = "service_unavailable"
	CodeAssistBackendFailed = "assist_backend_failed"
	CodeInternal            = "internal"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatusCode() int {
	if e == nil || e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(msg string) *Error {
	return New(http.StatusBadRequest, CodeBadRequest, errors.New(msg))
}

func Unauthorized() *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, errors.New("Unauthorized"))
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, CodeNotFound, errors.New(msg))
}

func Conflict(msg string) *Error {
	return New(http.StatusConflict, CodeConflict, errors.New(msg))
}

func PayloadTooLarge(msg string) *Error {
	return New(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, errors.New(msg))
}

func RateLimited() *Error {
	return New(http.StatusTooManyRequests, CodeRateLimited, errors.New("Too many requests, try again later"))
}

func ServiceUnavailable(msg string) *Error {
	return New(http.StatusServiceUnavailable, CodeServiceUnavailable, errors.New(msg))
}

// Internal hides the cause from the client message; the cause stays reachable
// through Unwrap for logging.
func Internal(msg string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Err: &hiddenCause{msg: msg, cause: cause}}
}

type hiddenCause struct {
	msg   string
	cause error
}

func (h *hiddenCause) Error() string { return h.msg }
func (h *hiddenCause) Unwrap() error { return h.cause }

// Cause returns the underlying error of an Internal error, or err itself.
func Cause(err error) error {
	var hc *hiddenCause
	if errors.As(err, &hc) && hc.cause != nil {
		return hc.cause
	}
	return err
}

// From converts any error into an *Error, defaulting to a 500.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("Internal server error", err)
}
