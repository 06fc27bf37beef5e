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
		name     string
		errType  ErrorType
		expected string
	}{
		{"file access error type", ErrTypeFileAccess, "FILE_ACCESS"},
		{"parsing error type", ErrTypeParsing, "PARSING"},
		{"join mismatch error type", ErrTypeJoinMismatch, "JOIN_MISMATCH"},
		{"not found error type", ErrTypeNotFound, "NOT_FOUND"},
		{"validation error type", ErrTypeValidation, "VALIDATION"},
		{"config error type", ErrTypeConfig, "CONFIG"},
		{"storage error type", ErrTypeStorage, "STORAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
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
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeNotFound,
				Message: "table orders not found",
			},
			wantMessage: "[NOT_FOUND] table orders not found",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeFileAccess,
				Message: "failed to read directory data/csv",
				Cause:   fmt.Errorf("permission denied"),
			},
			wantMessage: "[FILE_ACCESS] failed to read directory data/csv: permission denied",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("record on line 3: wrong number of fields")
	err := NewParsingError("malformed csv", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, NewNotFoundError("x").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad value", nil).
		WithContext("table", "order_items").
		WithContext("line", 7)

	assert.Equal(t, "order_items", err.Context["table"])
	assert.Equal(t, 7, err.Context["line"])
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	err := &AppError{Type: ErrTypeStorage, Message: "write failed"}
	err.WithContext("path", "out.db")

	require.NotNil(t, err.Context)
	assert.Equal(t, "out.db", err.Context["path"])
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{"file access", NewFileAccessError("cannot open", cause), ErrTypeFileAccess, "cannot open"},
		{"parsing", NewParsingError("bad row", cause), ErrTypeParsing, "bad row"},
		{"join mismatch", NewJoinMismatchError("orders without reviews", 4), ErrTypeJoinMismatch, "orders without reviews"},
		{"not found", NewNotFoundError("table sellers"), ErrTypeNotFound, "table sellers not found"},
		{"validation", NewAppValidationError("unknown format"), ErrTypeValidation, "unknown format"},
		{"config", NewConfigError("invalid config", cause), ErrTypeConfig, "invalid config"},
		{"storage", NewStorageError("insert failed", cause), ErrTypeStorage, "insert failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestNewJoinMismatchError_DroppedRows(t *testing.T) {
	err := NewJoinMismatchError("review join dropped rows", 12)
	assert.Equal(t, 12, err.Context["dropped_rows"])
}

func TestIsType(t *testing.T) {
	parse := NewParsingError("bad header", nil)
	wrapped := fmt.Errorf("load orders: %w", parse)
	nested := NewFileAccessError("load failed", wrapped)

	assert.True(t, IsType(parse, ErrTypeParsing))
	assert.True(t, IsType(wrapped, ErrTypeParsing))
	assert.True(t, IsType(nested, ErrTypeFileAccess))
	assert.True(t, IsType(nested, ErrTypeParsing))
	assert.False(t, IsType(nested, ErrTypeStorage))
	assert.False(t, IsType(errors.New("plain"), ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))
}
