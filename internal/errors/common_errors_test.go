package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		errType  ErrorType
		expected string
	}{
		{ErrTypeSchema, "SCHEMA"},
		{ErrTypeCoercion, "COERCION"},
		{ErrTypeIO, "IO"},
		{ErrTypeParsing, "PARSING"},
		{ErrTypeConfig, "CONFIG"},
		{ErrTypeConflict, "CONFLICT"},
		{ErrTypeValidation, "VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "without stage or cause",
			appError:    &AppError{Type: ErrTypeConfig, Message: "bad config"},
			wantMessage: "[CONFIG] bad config",
		},
		{
			name:        "with stage",
			appError:    &AppError{Type: ErrTypeSchema, Stage: "filter", Message: `missing column "Region"`},
			wantMessage: `[SCHEMA] filter: missing column "Region"`,
		},
		{
			name: "with stage and cause",
			appError: &AppError{
				Type:    ErrTypeIO,
				Stage:   "load",
				Message: "cannot open input",
				Cause:   fmt.Errorf("no such file"),
			},
			wantMessage: "[IO] load: cannot open input: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewIOError("export", "cannot save workbook", cause)

	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("run failed: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeIO, appErr.Type)
	assert.Equal(t, "export", appErr.Stage)
}

func TestNewSchemaError(t *testing.T) {
	err := NewSchemaError("reshape", "Child benefits")

	assert.Equal(t, ErrTypeSchema, err.Type)
	assert.Equal(t, "reshape", err.Stage)
	assert.Equal(t, "Child benefits", err.Context["column"])
	assert.Contains(t, err.Error(), `"Child benefits"`)
}

func TestNewCoercionError(t *testing.T) {
	cause := errors.New("invalid syntax")
	err := NewCoercionError("clean", "Year", 7, "20x9", cause)

	assert.Equal(t, ErrTypeCoercion, err.Type)
	assert.Equal(t, "clean", err.Stage)
	assert.Equal(t, 7, err.Context["row"])
	assert.Equal(t, "20x9", err.Context["value"])
	assert.Equal(t, "Year", err.Context["column"])
	assert.ErrorIs(t, err, cause)
}

func TestNewConflictError(t *testing.T) {
	err := NewConflictError("reshape", "2019|Males|35 to 44 years", "Market income")

	assert.Equal(t, ErrTypeConflict, err.Type)
	assert.Equal(t, "Market income", err.Context["column"])
	assert.Equal(t, "2019|Males|35 to 44 years", err.Context["group"])
}

func TestAppError_WithStage(t *testing.T) {
	err := NewAppError(ErrTypeValidation, "x", nil)
	err.WithStage("filter").WithStage("export")

	assert.Equal(t, "filter", err.Stage, "first stage wins")
}

func TestIsType(t *testing.T) {
	inner := NewCoercionError("clean", "Income", 3, "abc", nil)
	outer := NewAppError(ErrTypeValidation, "wrapper", inner)

	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{"nil error", nil, ErrTypeIO, false},
		{"plain error", errors.New("boom"), ErrTypeIO, false},
		{"direct match", inner, ErrTypeCoercion, true},
		{"outer match", outer, ErrTypeValidation, true},
		{"nested match", outer, ErrTypeCoercion, true},
		{"fmt wrapped", fmt.Errorf("ctx: %w", inner), ErrTypeCoercion, true},
		{"no match", outer, ErrTypeSchema, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.errType))
		})
	}
}

func TestStageOf(t *testing.T) {
	assert.Equal(t, "", StageOf(errors.New("plain")))
	assert.Equal(t, "load", StageOf(fmt.Errorf("x: %w", NewIOError("load", "open", nil))))
}
