package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a configuration value failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a task, bundle target, or file was not found.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentCompilation indicates a compiler was asked to compile while
	// it was already compiling or watching.
	ErrConcurrentCompilation = errors.New("concurrent compilation")

	// ErrUnknownHook indicates a hook registration named an extension point
	// the compiler does not have.
	ErrUnknownHook = errors.New("unknown hook")

	// ErrInterrupted indicates the run was cancelled by a signal.
	ErrInterrupted = errors.New("interrupted")
)
