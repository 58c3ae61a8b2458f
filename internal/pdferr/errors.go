// Package pdferr defines the two error kinds used throughout the PDF core:
// ValidationError for malformed requests and OperationError for execution
// failures. No other package defines its own error types for core operations.
package pdferr

import (
	"errors"
	"fmt"
)

// ValidationError indicates the request itself is malformed: missing or
// oversized file, wrong extension, unknown command, invalid page numbers,
// weak password. Callers should treat it as a client-side fault.
type ValidationError struct {
	msg string
	err error
}

func (e *ValidationError) Error() string { return e.msg }
func (e *ValidationError) Unwrap() error { return e.err }

// OperationError indicates a well-formed request failed during execution:
// corrupt content mid-processing, missing external tool, I/O failure, wrong
// decryption password. Callers may retry at their discretion.
type OperationError struct {
	msg string
	err error
}

func (e *OperationError) Error() string { return e.msg }
func (e *OperationError) Unwrap() error { return e.err }

// Validationf creates a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Operationf creates an OperationError with a formatted message. If the last
// argument is an error it is kept in the chain for errors.Is/As inspection.
func Operationf(format string, args ...any) error {
	e := &OperationError{msg: fmt.Sprintf(format, args...)}
	for _, a := range args {
		if err, ok := a.(error); ok {
			e.err = err
		}
	}
	return e
}

// WrapOperation wraps cause as an OperationError unless it is already typed,
// in which case it passes through unchanged. This is the single wrapping
// point; transforms must not wrap their own errors.
func WrapOperation(name string, cause error) error {
	if cause == nil {
		return nil
	}
	if IsTyped(cause) {
		return cause
	}
	return &OperationError{msg: fmt.Sprintf("%s failed: %v", name, cause), err: cause}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsOperation reports whether err is (or wraps) an OperationError.
func IsOperation(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe)
}

// IsTyped reports whether err already carries one of the two core kinds.
func IsTyped(err error) bool {
	return IsValidation(err) || IsOperation(err)
}
