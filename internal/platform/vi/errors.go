package vi

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable error code returned by the control
// plane API.
type ErrorCode string

const (
	// ErrorCodeNotFound indicates the named object does not exist.
	ErrorCodeNotFound ErrorCode = "not_found"
	// ErrorCodeUnauthorized indicates an authentication failure.
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	// ErrorCodeInvalidInput indicates the request was rejected as invalid.
	ErrorCodeInvalidInput ErrorCode = "invalid_input"
	// ErrorCodeTaskFailed indicates an asynchronous task finished in error.
	ErrorCodeTaskFailed ErrorCode = "task_failed"
)

// Error is an API-level error returned by the control plane.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is an API not-found error. Lookups with
// probe-then-fallback semantics use this to distinguish "try the other
// model" from a genuine failure.
func IsNotFound(err error) bool {
	return isErrorCode(err, ErrorCodeNotFound)
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return isErrorCode(err, ErrorCodeUnauthorized)
}

func isErrorCode(err error, codes ...ErrorCode) bool {
	if err == nil {
		return false
	}

	var apiErr Error
	if errors.As(err, &apiErr) {
		for _, code := range codes {
			if apiErr.Code == code {
				return true
			}
		}
	}
	return false
}
