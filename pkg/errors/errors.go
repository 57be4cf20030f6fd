// Package errors defines the coded errors shared by every jray surface. The
// CLI prints [UserMessage], the HTTP API sends the [Code] alongside it and
// the session decides from [Recoverable] whether to keep going.
//
// # Error Codes
//
// The core codes map one-to-one onto the failures a session can observe:
//
//   - INVALID_JSON: the source text is not valid JSON
//   - PATH_NOT_FOUND: an edit targets a node whose ancestor chain no longer exists
//   - TYPE_COERCION: an edit value cannot be coerced to the original scalar type
//   - ORACLE_FAILURE: the layout oracle could not position one or more nodes
//
// None of them are fatal. A session that observes one keeps its last good text
// and graph and only rejects the offending operation.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeTypeCoercion, "%q is not a number", raw)
//	if errors.Is(err, errors.ErrCodeTypeCoercion) {
//	    // keep the original value
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidJSON, origErr, "parse source")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Core synchronization errors
	ErrCodeInvalidJSON   Code = "INVALID_JSON"
	ErrCodePathNotFound  Code = "PATH_NOT_FOUND"
	ErrCodeTypeCoercion  Code = "TYPE_COERCION"
	ErrCodeOracleFailure Code = "ORACLE_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a [Code], a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message", followed by ": cause" when there is one.
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is [New] with an underlying cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of err, or "" for uncoded errors.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage drops the code prefix and the cause, leaving the part meant
// for people. Uncoded errors are returned as-is.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// Recoverable reports whether err is one of the core synchronization
// failures after which the session stays fully usable.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidJSON, ErrCodePathNotFound, ErrCodeTypeCoercion, ErrCodeOracleFailure:
		return true
	}
	return false
}

// HTTPStatus maps an error code to the status the HTTP API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidJSON, ErrCodeTypeCoercion, ErrCodeInvalidInput,
		ErrCodeInvalidDirection, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return 422
	case ErrCodePathNotFound, ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeSessionNotFound:
		return 404
	case ErrCodeUnsupported:
		return 501
	}
	return 500
}
