package config

import (
	"errors"
	"fmt"
	"strings"

	oerrors "github.com/opmodel/packtask/internal/errors"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap makes ValidationErrors match ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validate checks every bundle and the uniqueness of generated task names.
// bundlerName is used for the default task prefix.
func Validate(cfg *Config, bundlerName string) error {
	var errs ValidationErrors

	if len(cfg.Bundles) == 0 {
		errs = append(errs, ValidationError{Field: "bundles", Message: "at least one bundle is required"})
	}

	for _, name := range cfg.BundleNames() {
		bundle := cfg.Bundles[name]
		if err := bundle.Config.Validate(); err != nil {
			field, message := "bundles."+name, err.Error()
			var detail *oerrors.DetailError
			if errors.As(err, &detail) {
				field += "." + detail.Field
				message = detail.Message
			}
			errs = append(errs, ValidationError{Field: field, Message: message})
		}
	}

	seen := make(map[string]string)
	for _, t := range Targets(cfg, "", bundlerName) {
		key := t.Prefix + "\x00" + t.Suffix
		if other, dup := seen[key]; dup {
			errs = append(errs, ValidationError{
				Field:   "bundles." + t.Name,
				Message: fmt.Sprintf("task names collide with bundle %q, set a distinct prefix or suffix", other),
			})
			continue
		}
		seen[key] = t.Name
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
