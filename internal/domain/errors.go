package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConfiguration is returned for missing or malformed files and directories
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation is returned when configuration values fail semantic checks
	ErrValidation = errors.New("validation error")

	// ErrAlreadyExists is returned when an exclusive-create write collides with an existing file
	ErrAlreadyExists = errors.New("already exists")

	// ErrResourceExhausted is returned when every history file name for a day is taken
	ErrResourceExhausted = errors.New("resource exhausted")
)

// ConfigurationError describes a problem with a file or directory the tool depends on.
type ConfigurationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// NewConfigurationError creates a ConfigurationError for path.
func NewConfigurationError(path, reason string, err error) *ConfigurationError {
	return &ConfigurationError{Path: path, Reason: reason, Err: err}
}

// ValidationError describes a configuration value that failed a semantic check.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
