package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSchema     ErrorType = "SCHEMA"
	ErrTypeCoercion   ErrorType = "COERCION"
	ErrTypeIO         ErrorType = "IO"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeConflict   ErrorType = "CONFLICT"
	ErrTypeValidation ErrorType = "VALIDATION"
)

// AppError represents an application-specific error. Stage names the
// pipeline step that failed and is empty for errors raised outside a run.
type AppError struct {
	Type    ErrorType
	Stage   string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.Type))
	b.WriteString("] ")
	if e.Stage != "" {
		b.WriteString(e.Stage)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithStage sets the stage if it has not been set yet.
func (e *AppError) WithStage(stage string) *AppError {
	if e.Stage == "" {
		e.Stage = stage
	}
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewSchemaError reports a column the stage needed but the table lacks.
func NewSchemaError(stage, column string) *AppError {
	return NewAppError(ErrTypeSchema, fmt.Sprintf("missing column %q", column), nil).
		WithStage(stage).
		WithContext("column", column)
}

// NewCoercionError reports a value that could not be converted to the
// column's target type. row is 1-based and excludes the header.
func NewCoercionError(stage, column string, row int, value string, cause error) *AppError {
	return NewAppError(ErrTypeCoercion,
		fmt.Sprintf("cannot convert %q in column %q at row %d", value, column, row), cause).
		WithStage(stage).
		WithContext("column", column).
		WithContext("row", row).
		WithContext("value", value)
}

// NewIOError creates a file system error
func NewIOError(stage, message string, cause error) *AppError {
	return NewAppError(ErrTypeIO, message, cause).WithStage(stage)
}

// NewParsingError creates a parsing-related error
func NewParsingError(stage, message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause).WithStage(stage)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewConflictError reports two rows competing for one pivot cell.
func NewConflictError(stage, key, column string) *AppError {
	return NewAppError(ErrTypeConflict,
		fmt.Sprintf("more than one value for %q in group %s", column, key), nil).
		WithStage(stage).
		WithContext("column", column).
		WithContext("group", key)
}

// NewValidationError reports a violated post-condition.
func NewValidationError(stage, message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil).WithStage(stage)
}

// IsType reports whether any AppError in err's chain has the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	for err != nil {
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Type == errType {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// StageOf returns the stage recorded on the first AppError in err's chain.
func StageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Stage
	}
	return ""
}
