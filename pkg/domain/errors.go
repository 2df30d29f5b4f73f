package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrUserInput          = errors.New("invalid request")
	ErrContractViolation  = errors.New("internal contract violation")
	ErrCatalogInvalid     = errors.New("invalid icon catalog")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrNothingResolved    = errors.New("no icon resolved")
	ErrIconSourceNotFound = errors.New("icon source directory not found")
)

// Error codes reported in ErrorResponse.Code.
const (
	CodeMissingIcons    = "MISSING_ICONS"
	CodeInvalidTheme    = "INVALID_THEME"
	CodeInvalidPerLine  = "INVALID_PER_LINE"
	CodeNothingResolved = "NOTHING_RESOLVED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL"
)

// UserInputError reports a malformed or missing request parameter. It is
// always safe to show to the caller.
type UserInputError struct {
	Code    string
	Message string
	Err     error
}

// NewUserInputError builds a UserInputError with the given code and message.
func NewUserInputError(code, message string) *UserInputError {
	return &UserInputError{Code: code, Message: message}
}

func (e *UserInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserInputError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match any UserInputError against ErrUserInput.
func (e *UserInputError) Is(target error) bool {
	return target == ErrUserInput
}

// IsUserInput checks if the error should be reported to the caller as a bad request.
func IsUserInput(err error) bool {
	return errors.Is(err, ErrUserInput)
}

// ErrorResponse is the JSON error body returned by the HTTP adapter.
// TraceID carries the current OpenTelemetry trace identifier when available.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}
