package list

import (
	"errors"
	"fmt"
)

// QueryError reports why a query could not be built. Empty results are
// never errors; they are the None handle.
type QueryError struct {
	// Code identifies the error category.
	Code QueryErrorCode

	// Message is a human-readable description.
	Message string

	// Handle is the handle involved, if any.
	Handle Handle

	// Err is the underlying cause, e.g. an *argcodec.Error.
	Err error
}

// QueryErrorCode categorizes query errors.
type QueryErrorCode string

const (
	// ErrCodeNoPredicate indicates a nil predicate.
	ErrCodeNoPredicate QueryErrorCode = "NO_PREDICATE"

	// ErrCodeEncode indicates the arguments did not fit the tag string.
	ErrCodeEncode QueryErrorCode = "ENCODE"

	// ErrCodeInvalidHandle indicates a stale or composite-owned handle.
	ErrCodeInvalidHandle QueryErrorCode = "INVALID_HANDLE"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if !e.Handle.IsNone() {
		msg += fmt.Sprintf(" (handle=%s)", e.Handle)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsEncodeError returns true if err is an argument encoding failure.
// Uses errors.As to handle wrapped errors.
func IsEncodeError(err error) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == ErrCodeEncode
	}
	return false
}

// IsInvalidHandle returns true if err was caused by a stale or owned handle.
func IsInvalidHandle(err error) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == ErrCodeInvalidHandle
	}
	return false
}

func encodeError(err error) *QueryError {
	return &QueryError{Code: ErrCodeEncode, Message: "encode query arguments", Err: err}
}
