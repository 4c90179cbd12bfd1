package errors

import (
	"errors"
	"fmt"
	"time"
)

// Base error types
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrLayout       = errors.New("layout failed")
	ErrOutput       = errors.New("output failed")
	ErrInternal     = errors.New("internal error")
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeLayout     ErrorType = "layout"
	ErrorTypeOutput     ErrorType = "output"
	ErrorTypeInternal   ErrorType = "internal"
)

// ReportError is a structured error for report generation
type ReportError struct {
	Type      ErrorType
	Op        string // Operation that failed (e.g., "load_input", "render_body")
	Subject   string // File or candidate the operation worked on
	Err       error  // Underlying error
	Timestamp time.Time
}

func (e *ReportError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s failed on %s: %v", e.Op, e.Subject, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface
func (e *ReportError) Is(target error) bool {
	if target == nil {
		return false
	}

	switch target {
	case ErrNotFound:
		return e.Type == ErrorTypeNotFound
	case ErrInvalidInput:
		return e.Type == ErrorTypeValidation
	case ErrLayout:
		return e.Type == ErrorTypeLayout
	case ErrOutput:
		return e.Type == ErrorTypeOutput
	}

	return errors.Is(e.Err, target)
}

// NewReportError creates a new ReportError
func NewReportError(errorType ErrorType, op, subject string, err error) *ReportError {
	return &ReportError{
		Type:      errorType,
		Op:        op,
		Subject:   subject,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Helper functions

// WrapInputError wraps an error caused by malformed or unreadable input
func WrapInputError(op, subject string, err error) error {
	return NewReportError(ErrorTypeValidation, op, subject, err)
}

// WrapLayoutError wraps an error raised while laying out or drawing pages
func WrapLayoutError(op, subject string, err error) error {
	return NewReportError(ErrorTypeLayout, op, subject, err)
}

// WrapOutputError wraps an error raised while writing or merging files
func WrapOutputError(op, subject string, err error) error {
	return NewReportError(ErrorTypeOutput, op, subject, err)
}

// IsInputError reports whether err was caused by the caller's input
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound)
}

// TypeOf returns the category of err, or ErrorTypeInternal when it carries none
func TypeOf(err error) ErrorType {
	var repErr *ReportError
	if errors.As(err, &repErr) {
		return repErr.Type
	}
	return ErrorTypeInternal
}
