package argcodec

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes encoding errors.
type ErrorCode string

const (
	// ErrCodeUnknownTag indicates a character outside the tag alphabet.
	ErrCodeUnknownTag ErrorCode = "UNKNOWN_TAG"

	// ErrCodeBadCount indicates a malformed or zero repeat count.
	ErrCodeBadCount ErrorCode = "BAD_COUNT"

	// ErrCodeArgCount indicates the argument list does not match the tags.
	ErrCodeArgCount ErrorCode = "ARG_COUNT"

	// ErrCodeArgType indicates an argument of the wrong Go type or range.
	ErrCodeArgType ErrorCode = "ARG_TYPE"

	// ErrCodeShortRead indicates a predicate read past the end of its buffer.
	ErrCodeShortRead ErrorCode = "SHORT_READ"

	// ErrCodeTrailingBytes indicates bytes left over after the last tag.
	ErrCodeTrailingBytes ErrorCode = "TRAILING_BYTES"
)

// Error describes why a tag string or argument list was rejected.
// No partial buffer is ever returned alongside an Error.
type Error struct {
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Tags is the tag string being processed.
	Tags string

	// Pos is the byte offset into Tags, or -1 when not applicable.
	Pos int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s (tags=%q, pos=%d)", e.Code, e.Message, e.Tags, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsTagError returns true if err rejects the tag string itself.
// Uses errors.As to handle wrapped errors.
func IsTagError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeUnknownTag || e.Code == ErrCodeBadCount
	}
	return false
}

// IsArgError returns true if err rejects the argument list.
// Uses errors.As to handle wrapped errors.
func IsArgError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeArgCount || e.Code == ErrCodeArgType
	}
	return false
}

func newError(code ErrorCode, tags string, pos int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Tags:    tags,
		Pos:     pos,
	}
}
