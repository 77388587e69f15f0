package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeCommunication ErrorType = "communication"
	ErrorTypeDecode        ErrorType = "decode"
	ErrorTypeInternal      ErrorType = "internal"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeTimeout       ErrorType = "timeout"
)

// PluginError is the base error type for all application errors.
// Communication and timeout errors are the distinguishable technical
// signal the reconciliation engines map to a COMMUNICATION_ERROR outcome;
// everything else surfaces as INTERNAL_ERROR.
type PluginError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface
func (e *PluginError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *PluginError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *PluginError) WithContext(key string, value any) *PluginError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a new PluginError
func New(errorType ErrorType, message string) *PluginError {
	return &PluginError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errorType ErrorType, message string) *PluginError {
	return &PluginError{
		Type:    errorType,
		Message: message,
		Cause:   err,
		Context: make(map[string]any),
	}
}

// Validation creates a validation error
func Validation(message string) *PluginError {
	return New(ErrorTypeValidation, message)
}

// Communication creates a communication error
func Communication(message string, err error) *PluginError {
	return Wrap(err, ErrorTypeCommunication, message)
}

// Internal creates an internal error
func Internal(message string) *PluginError {
	return New(ErrorTypeInternal, message)
}

// Configuration creates a configuration error
func Configuration(message string) *PluginError {
	return New(ErrorTypeConfiguration, message)
}

// TypeOf reports the category of err: the PluginError type when err is one,
// ErrorTypeInternal otherwise.
func TypeOf(err error) ErrorType {
	var pe *PluginError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ErrorTypeInternal
}

// IsCommunication reports whether err is a transport-level failure
func IsCommunication(err error) bool {
	t := TypeOf(err)
	return t == ErrorTypeCommunication || t == ErrorTypeTimeout
}
