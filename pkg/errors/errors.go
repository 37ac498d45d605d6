package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCancelled    ErrorCode = "CANCELLED"
	ErrIO           ErrorCode = "IO"
	ErrParse        ErrorCode = "PARSE"

	// Vault errors
	ErrNotInitialized ErrorCode = "NOT_INITIALIZED"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrVaultNotFound  ErrorCode = "VAULT_NOT_FOUND"
	ErrActiveVault    ErrorCode = "ACTIVE_VAULT"

	// Manifest errors
	ErrAlreadyManaged ErrorCode = "ALREADY_MANAGED"
	ErrNotInManifest  ErrorCode = "NOT_IN_MANIFEST"
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"

	// Repository errors
	ErrBackend    ErrorCode = "BACKEND"
	ErrConflict   ErrorCode = "CONFLICT"
	ErrNoRemote   ErrorCode = "NO_REMOTE"
	ErrAuthFailed ErrorCode = "AUTH_FAILED"
	ErrNetwork    ErrorCode = "NETWORK"
)

// GfvError is a structured error carrying a stable code and optional details.
type GfvError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *GfvError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GfvError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a GfvError with the same code.
func (e *GfvError) Is(target error) bool {
	var targetErr *GfvError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new GfvError with the given code and message
func New(code ErrorCode, message string) *GfvError {
	return &GfvError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new GfvError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *GfvError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &GfvError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *GfvError) WithDetail(key string, value interface{}) *GfvError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the wrapped error.
func (e *GfvError) WithCause(err error) *GfvError {
	e.Wrapped = err
	return e
}

// WithRemediation records the operator action needed to recover.
func (e *GfvError) WithRemediation(hint string) *GfvError {
	return e.WithDetail(DetailRemediation, hint)
}

// DetailRemediation is the details key holding a recovery hint.
const DetailRemediation = "remediation"

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var gfvErr *GfvError
	if errors.As(err, &gfvErr) {
		return gfvErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a GfvError
func GetErrorCode(err error) ErrorCode {
	var gfvErr *GfvError
	if errors.As(err, &gfvErr) {
		return gfvErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a GfvError
func GetErrorDetails(err error) map[string]interface{} {
	var gfvErr *GfvError
	if errors.As(err, &gfvErr) {
		return gfvErr.Details
	}
	return nil
}

// Remediation returns the recovery hint attached anywhere in err's chain.
func Remediation(err error) string {
	for err != nil {
		var gfvErr *GfvError
		if !errors.As(err, &gfvErr) {
			return ""
		}
		if hint, ok := gfvErr.Details[DetailRemediation].(string); ok && hint != "" {
			return hint
		}
		err = gfvErr.Wrapped
	}
	return ""
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
