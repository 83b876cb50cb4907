package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Repository environment errors
	ErrRootResolve ErrorCode = "ROOT_RESOLVE"

	// Enumeration errors
	ErrEnumerate  ErrorCode = "ENUMERATE"
	ErrGitCommand ErrorCode = "GIT_COMMAND"

	// Mapping errors
	ErrMapping           ErrorCode = "MAPPING"
	ErrPatternInvalid    ErrorCode = "PATTERN_INVALID"
	ErrSourceOutsideRoot ErrorCode = "SOURCE_OUTSIDE_ROOT"

	// Rule document errors
	ErrRuleRender ErrorCode = "RULE_RENDER"
	ErrRuleParse  ErrorCode = "RULE_PARSE"

	// FileSystem errors
	ErrDestClear  ErrorCode = "DEST_CLEAR"
	ErrDestCreate ErrorCode = "DEST_CREATE"
	ErrSourceRead ErrorCode = "SOURCE_READ"
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// AgentsmdError represents a structured error with code and details
type AgentsmdError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AgentsmdError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AgentsmdError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AgentsmdError) Is(target error) bool {
	var targetErr *AgentsmdError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AgentsmdError with the given code and message
func New(code ErrorCode, message string) *AgentsmdError {
	return &AgentsmdError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AgentsmdError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AgentsmdError {
	return &AgentsmdError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AgentsmdError
func Wrap(err error, code ErrorCode, message string) *AgentsmdError {
	if err == nil {
		return nil
	}
	return &AgentsmdError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AgentsmdError {
	if err == nil {
		return nil
	}
	return &AgentsmdError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AgentsmdError) WithDetail(key string, value interface{}) *AgentsmdError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *AgentsmdError) WithDetails(details map[string]interface{}) *AgentsmdError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var agentsmdErr *AgentsmdError
	if errors.As(err, &agentsmdErr) {
		return agentsmdErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AgentsmdError
func GetErrorCode(err error) ErrorCode {
	var agentsmdErr *AgentsmdError
	if errors.As(err, &agentsmdErr) {
		return agentsmdErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AgentsmdError
func GetErrorDetails(err error) map[string]interface{} {
	var agentsmdErr *AgentsmdError
	if errors.As(err, &agentsmdErr) {
		return agentsmdErr.Details
	}
	return nil
}
