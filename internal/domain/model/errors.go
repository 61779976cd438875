package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for the domain. These allow errors.Is from callers.
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// ValidationError reports an input outside its documented domain.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap exposes ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports a tier with no calibration constant.
type ConfigurationError struct {
	Tier     string
	MemberID string
}

func (e *ConfigurationError) Error() string {
	if e.MemberID == "" {
		return fmt.Sprintf("unrecognized tier %q", e.Tier)
	}
	return fmt.Sprintf("unrecognized tier %q for member %q", e.Tier, e.MemberID)
}

// Unwrap exposes ErrConfiguration.
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
