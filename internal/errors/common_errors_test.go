package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeRender,
				Message: "Chart encoding failed",
			},
			wantMessage: "[RENDER] Chart encoding failed",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "Failed to write workbook",
				Cause:   fmt.Errorf("disk full"),
			},
			wantMessage: "[STORAGE] Failed to write workbook: disk full",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeConfig,
			},
			wantMessage: "[CONFIG] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	appErr := NewRenderError("render failed", cause)

	assert.Same(t, cause, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, cause))
	assert.Nil(t, NewConfigError("bad", nil).Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	appErr := &AppError{Type: ErrTypeStorage, Message: "Storage error"}

	result := appErr.WithContext("path", "results/3_production_matrix.xlsx")

	assert.Same(t, appErr, result)
	require.Contains(t, result.Context, "path")
	assert.Equal(t, "results/3_production_matrix.xlsx", result.Context["path"])
}

func TestHelperConstructors(t *testing.T) {
	tests := []struct {
		name     string
		build    func(string, error) *AppError
		wantType ErrorType
	}{
		{name: "render", build: NewRenderError, wantType: ErrTypeRender},
		{name: "storage", build: NewStorageError, wantType: ErrTypeStorage},
		{name: "config", build: NewConfigError, wantType: ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := fmt.Errorf("boom")
			got := tt.build("message", cause)

			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, "message", got.Message)
			assert.Equal(t, cause, got.Cause)
			assert.NotNil(t, got.Context)
		})
	}
}
