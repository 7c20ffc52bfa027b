// Package errors defines the coded errors podlens surfaces to users.
//
// A failure that leaves the library carries a [Code] next to its message.
// The CLI prints the message, the HTTP server turns the code into a status
// and a JSON body, and callers branch on the code with [Is]:
//
//	err := errors.New(errors.ErrCodeInvalidPackage, "invalid pod name: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidPackage) {
//	    ...
//	}
//
//	err = errors.Wrap(errors.ErrCodeNetwork, cause, "fetch %s", url)
//	status := errors.HTTPStatus(errors.GetCode(err)) // 502
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidRepo    Code = "INVALID_REPO"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeReadmeNotFound  Code = "README_NOT_FOUND"

	// Upstream registry trouble.
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// statusByCode is the HTTP mapping used by [HTTPStatus].
var statusByCode = map[Code]int{
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidPackage:  http.StatusBadRequest,
	ErrCodeInvalidRepo:     http.StatusBadRequest,
	ErrCodeInvalidConfig:   http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodePackageNotFound: http.StatusNotFound,
	ErrCodeReadmeNotFound:  http.StatusNotFound,
	ErrCodeNetwork:         http.StatusBadGateway,
	ErrCodeTimeout:         http.StatusBadGateway,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeUnsupported:     http.StatusNotImplemented,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// Error pairs a Code with a message and, optionally, the error that caused it.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is New with a cause kept for errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix from coded errors. Other errors are
// returned as their Error string.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps code to a response status. Unknown and empty codes are 500.
func HTTPStatus(code Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
