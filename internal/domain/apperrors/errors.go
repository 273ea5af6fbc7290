package apperrors

import (
	"errors"
	"fmt"
)

// Re-export the standard library helpers so callers only import one errors
// package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// AppError carries a stable machine-readable code alongside the message.
type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

func (e *AppError) Unwrap() error {
	return e.err
}

// New creates an application error with the given code.
func New(code, message string) *AppError {
	return &AppError{code: code, message: message}
}

// Wrap annotates err with a code and message.
func Wrap(code, message string, err error) *AppError {
	return &AppError{code: code, message: message, err: err}
}

// CodeOf extracts the application error code, or ErrInternal for plain errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return ErrInternal
}
