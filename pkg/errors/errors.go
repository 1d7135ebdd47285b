package errors

import (
	"errors"
	"fmt"
)

// Common analysis errors
var (
	ErrDimensionMismatch = errors.New("data and timestamp lengths differ")
	ErrInsufficientData  = errors.New("insufficient data for requested statistic")
	ErrDegenerateInput   = errors.New("degenerate input: zero variance")
	ErrInvalidDomain     = errors.New("unrecognized analysis domain")
	ErrAnalysisFailed    = errors.New("analysis failed")
)

// ErrorType represents different categories of analysis errors
type ErrorType string

const (
	ErrorTypeDimensionMismatch ErrorType = "dimension_mismatch"
	ErrorTypeInsufficientData  ErrorType = "insufficient_data"
	ErrorTypeDegenerateInput   ErrorType = "degenerate_input"
	ErrorTypeInvalidDomain     ErrorType = "invalid_domain"
	ErrorTypeAnalysisFailed    ErrorType = "analysis_failed"
)

// AppError represents an analysis error with additional context
type AppError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	switch target {
	case ErrDimensionMismatch:
		return e.Type == ErrorTypeDimensionMismatch
	case ErrInsufficientData:
		return e.Type == ErrorTypeInsufficientData
	case ErrDegenerateInput:
		return e.Type == ErrorTypeDegenerateInput
	case ErrInvalidDomain:
		return e.Type == ErrorTypeInvalidDomain
	case ErrAnalysisFailed:
		return e.Type == ErrorTypeAnalysisFailed
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new analysis error
func NewAppError(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with analysis context
func WrapError(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// NewDimensionMismatchError creates a fatal length-mismatch error
func NewDimensionMismatchError(dataLen, timestampLen int) *AppError {
	e := NewAppError(ErrorTypeDimensionMismatch, CodeDimensionMismatch,
		"data and timestamp arrays must have equal length")
	return e.WithContext("data_length", dataLen).WithContext("timestamp_length", timestampLen)
}

// NewInsufficientDataError creates an error for series too short for a statistic
func NewInsufficientDataError(operation string, n int) *AppError {
	e := NewAppError(ErrorTypeInsufficientData, CodeInsufficientData,
		fmt.Sprintf("not enough observations for %s", operation))
	return e.WithContext("length", n)
}

// NewDegenerateInputError creates an error for zero-variance input
func NewDegenerateInputError(operation string) *AppError {
	return NewAppError(ErrorTypeDegenerateInput, CodeDegenerateInput,
		fmt.Sprintf("%s undefined for zero-variance input", operation))
}

// NewInvalidDomainError creates an error for an unrecognized domain tag
func NewInvalidDomainError(domain string) *AppError {
	e := NewAppError(ErrorTypeInvalidDomain, CodeInvalidDomain,
		"unrecognized analysis domain")
	return e.WithContext("domain", domain)
}

// NewAnalysisFailedError wraps an unexpected internal failure
func NewAnalysisFailedError(stage string, cause error) *AppError {
	e := WrapError(cause, ErrorTypeAnalysisFailed, CodeAnalysisFailed,
		fmt.Sprintf("analysis stage %q failed", stage))
	return e.WithContext("stage", stage)
}

// Error codes for analysis failure scenarios
const (
	CodeDimensionMismatch = "DIMENSION_MISMATCH"
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeDegenerateInput   = "DEGENERATE_INPUT"
	CodeInvalidDomain     = "INVALID_DOMAIN"
	CodeAnalysisFailed    = "ANALYSIS_FAILED"
)
