package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfigInvalid = errors.New("invalid configuration")
)

// ConfigError represents a route table configuration error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// RouteNotFoundError is returned when no route matches a path, or when a
// route is looked up by a name that was never registered.
type RouteNotFoundError struct {
	Path string
	Name string
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("no route named %q", e.Name)
	}
	return fmt.Sprintf("no route found for %s", e.Path)
}

// Is checks if the error matches the target.
func (e *RouteNotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	_, ok := target.(*RouteNotFoundError)
	return ok
}

// NewRouteNotFoundError creates a RouteNotFoundError for an unmatched path.
func NewRouteNotFoundError(path string) *RouteNotFoundError {
	return &RouteNotFoundError{Path: path}
}

// NewRouteNameNotFoundError creates a RouteNotFoundError for an unknown route name.
func NewRouteNameNotFoundError(name string) *RouteNotFoundError {
	return &RouteNotFoundError{Name: name}
}

// ArityError is returned when a route is filled with the wrong number of
// parameter values.
type ArityError struct {
	Route string
	Want  int
	Got   int
}

// Error implements the error interface.
func (e *ArityError) Error() string {
	return fmt.Sprintf("route %q takes %d parameter(s), got %d", e.Route, e.Want, e.Got)
}

// Is checks if the error matches the target.
func (e *ArityError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	_, ok := target.(*ArityError)
	return ok
}

// NewArityError creates a new ArityError.
func NewArityError(route string, want, got int) *ArityError {
	return &ArityError{Route: route, Want: want, Got: got}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
