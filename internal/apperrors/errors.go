package apperrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure so callers (and the HTTP layer) can react to the
// kind of problem instead of matching on message text.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeConflict           Code = "conflict"
	CodeNotFound           Code = "not_found"
	CodeAuthorization      Code = "authorization"
	CodeStateTransition    Code = "state_transition"
	CodeStorage            Code = "storage"
	CodeScoringUnavailable Code = "scoring_unavailable"
	CodeInternal           Code = "internal"
)

type Error struct {
	Code    Code
	Message string
	// Field names the offending field or entity, when there is one.
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func NewField(code Code, message, field string) *Error {
	return &Error{Code: code, Message: message, Field: field}
}

func Validation(message, field string) *Error {
	return NewField(CodeValidation, message, field)
}

func Conflict(message string) *Error {
	return New(CodeConflict, message, nil)
}

func NotFound(entity string) *Error {
	return NewField(CodeNotFound, entity+" not found", entity)
}

func Authorization(message string) *Error {
	return New(CodeAuthorization, message, nil)
}

func StateTransition(message string) *Error {
	return New(CodeStateTransition, message, nil)
}

func Storage(message string, err error) *Error {
	return New(CodeStorage, message, err)
}

func ScoringUnavailable(message string, err error) *Error {
	return New(CodeScoringUnavailable, message, err)
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// produced outside this package.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
