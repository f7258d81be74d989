package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Upload errors. Everything in this group is detected before storage is touched.
var (
	ErrNoFileProvided       = errors.New("no file uploaded")
	ErrUnsupportedMediaType = errors.New("unsupported file type, upload an .xlsx or .csv file")
	ErrFileTooLarge         = errors.New("file exceeds the maximum upload size")
	ErrDecodeFailure        = errors.New("file could not be read")
	ErrEmptyFile            = errors.New("file contains no data rows")
	ErrMissingField         = errors.New("missing required field")
	ErrInvalidRow           = errors.New("invalid row")
	ErrDuplicateStudentID   = errors.New("duplicate student ID in upload")
)

// Student errors
var (
	ErrStudentNotFound = errors.New("student not found")
)

// Storage errors
var (
	ErrPersistence = errors.New("failed to persist data")
)

// Row-level rejection reasons.
const (
	ReasonMissingField     = "missing field"
	ReasonNonNumericMarks  = "non-numeric marks"
	ReasonNonPositiveTotal = "non-positive total"
	ReasonNegativeObtained = "negative marks obtained"
	ReasonObtainedExceeds  = "obtained exceeds total"
	ReasonDuplicateID      = "duplicate student ID"
)

// RowError describes why a single row of an upload was rejected.
// Row is the 1-based position of the data row within the batch.
type RowError struct {
	Row    int
	Field  string
	Value  string
	Reason string
	Err    error
}

// Error implements error interface
func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: %s (%s)", e.Row, e.Reason, e.Field)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Unwrap implements errors.Unwrap interface
func (e *RowError) Unwrap() error {
	return e.Err
}

// NewMissingFieldError reports that none of the accepted headers for field were present.
func NewMissingFieldError(row int, field string) *RowError {
	return &RowError{Row: row, Field: field, Reason: ReasonMissingField, Err: ErrMissingField}
}

// NewInvalidRowError reports a row that failed a validation rule.
func NewInvalidRowError(row int, field, value, reason string) *RowError {
	return &RowError{Row: row, Field: field, Value: value, Reason: reason, Err: ErrInvalidRow}
}

// NewDuplicateIDError reports a student ID that already appeared earlier in the batch.
func NewDuplicateIDError(row int, studentID string) *RowError {
	return &RowError{Row: row, Field: "student_id", Value: studentID, Reason: ReasonDuplicateID, Err: ErrDuplicateStudentID}
}

// AsRowError extracts a RowError from err, if there is one.
func AsRowError(err error) (*RowError, bool) {
	var rowErr *RowError
	if errors.As(err, &rowErr) {
		return rowErr, true
	}
	return nil, false
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
