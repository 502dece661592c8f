//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	assert.NotEqual(t, ErrValidation, ErrNotFound)
	assert.NotEqual(t, ErrValidation, ErrConcurrentCompilation)
	assert.NotEqual(t, ErrUnknownHook, ErrConcurrentCompilation)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "validation failed",
		Message:  "entryPoints must not be empty",
		Location: "packtask.yaml",
		Field:    "bundles.app.entryPoints",
		Hint:     "Add at least one entry file",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: validation failed")
	assert.Contains(t, output, "Location: packtask.yaml")
	assert.Contains(t, output, "Field: bundles.app.entryPoints")
	assert.Contains(t, output, "entryPoints must not be empty")
	assert.Contains(t, output, "Hint: Add at least one entry file")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrValidation,
	}

	assert.True(t, errors.Is(detail, ErrValidation))
	assert.Equal(t, ErrValidation, detail.Unwrap())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(
		"unknown format",
		"packtask.yaml",
		"bundles.app.format",
		"Use esm, cjs or iife",
	)

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "validation failed", detail.Type)
	assert.Equal(t, "unknown format", detail.Message)
	assert.Equal(t, "bundles.app.format", detail.Field)
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "task \"esbuild:deploy\"")

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Contains(t, wrapped.Error(), "esbuild:deploy")
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "nil error returns success", err: nil, wantCode: ExitSuccess},
		{name: "validation error", err: ErrValidation, wantCode: ExitValidationError},
		{name: "wrapped validation error", err: Wrap(ErrValidation, "bad config"), wantCode: ExitValidationError},
		{name: "not found error", err: NewNotFoundError("no such task", "", ""), wantCode: ExitNotFound},
		{name: "interrupted", err: fmt.Errorf("run: %w", ErrInterrupted), wantCode: ExitInterrupted},
		{name: "explicit exit error", err: &ExitError{Code: 7, Err: errors.New("x")}, wantCode: 7},
		{name: "unknown error returns general error", err: errors.New("boom"), wantCode: ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitErrorWithoutCause(t *testing.T) {
	err := &ExitError{Code: ExitGeneralError}
	assert.Equal(t, "exit status 1", err.Error())
	assert.Nil(t, err.Unwrap())
}
