// Package domainerrors provides coded errors for the service layer.
//
// Stores return sentinel errors (pkg/platform/sentinel); services translate
// them into coded errors so transport layers can map codes onto status codes
// without string matching. Codes are a closed set — add here, not inline.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks caller input that fails business validation.
	CodeValidation Code = "validation"
	// CodeInvalidInput marks input rejected at a trust boundary before any
	// business rule runs (malformed IDs, unknown enum literals).
	CodeInvalidInput Code = "invalid_input"
	// CodeInvariantViolation marks a broken construction invariant. These are
	// authoring or programming faults, not user input problems.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeNotFound marks a referenced entity that does not exist.
	CodeNotFound Code = "not_found"
	// CodeUnavailable marks an entity that exists but whose status forbids use
	// (a certificate template on hold or withdrawn).
	CodeUnavailable Code = "unavailable"
	// CodeMappingInconsistency marks a fatal template/answer drift detected
	// while flattening answers into document fields.
	CodeMappingInconsistency Code = "mapping_inconsistency"
	CodeConflict             Code = "conflict"
	CodeUnauthorized         Code = "unauthorized"
	CodeForbidden            Code = "forbidden"
	CodeBadRequest           Code = "bad_request"
	CodeInternal             Code = "internal"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// Is re-exports errors.Is so call sites importing this package don't need a
// second errors import for chain checks.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
