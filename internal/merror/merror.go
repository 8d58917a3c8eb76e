package merror

import (
	"fmt"

	"github.com/pkg/errors"
)

// MError is a coded kafkabench error
type MError struct {
	code    Code
	message string
	cause   error
}

// Error returns the error message
func (e *MError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Code returns the error code
func (e *MError) Code() Code {
	return e.code
}

// Cause returns the wrapped error, if any. Satisfies pkg/errors causer.
func (e *MError) Cause() error {
	return e.cause
}

// Unwrap returns the wrapped error, if any
func (e *MError) Unwrap() error {
	return e.cause
}

// New returns a merror with code and a message
func New(code Code, msg string) *MError {
	return &MError{code: code, message: msg}
}

// Newf returns a merror with code and a formatted message
func Newf(code Code, format string, arg ...interface{}) *MError {
	return &MError{code: code, message: fmt.Sprintf(format, arg...)}
}

// Wrap returns a merror with code and message which wraps err
func Wrap(code Code, err error, msg string) *MError {
	return &MError{code: code, message: msg, cause: err}
}

// Wrapf returns a merror with code and formatted message which wraps err
func Wrapf(code Code, err error, format string, arg ...interface{}) *MError {
	return &MError{code: code, message: fmt.Sprintf(format, arg...), cause: err}
}

// CodeOf returns the code of the first MError in err's chain, or Unknown
func CodeOf(err error) Code {
	var merr *MError
	if errors.As(err, &merr) {
		return merr.code
	}
	return Unknown
}

// Is reports whether err carries the given code
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}
