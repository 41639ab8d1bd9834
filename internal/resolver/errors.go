package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingRequiredConfiguration is matched by every exhaustion failure.
	ErrMissingRequiredConfiguration = errors.New("missing required configuration")
	// ErrNoSources is returned for a request without any source to consult.
	ErrNoSources = errors.New("resolution request has no sources")
)

// MissingConfigurationError is returned when no source yields a value.
type MissingConfigurationError struct {
	Key       string
	Attempted []string
	Hint      string
}

func (e *MissingConfigurationError) Error() string {
	msg := fmt.Sprintf("%s: %q not set (tried %s)", ErrMissingRequiredConfiguration, e.Key, strings.Join(e.Attempted, ", "))
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *MissingConfigurationError) Unwrap() error {
	return ErrMissingRequiredConfiguration
}
