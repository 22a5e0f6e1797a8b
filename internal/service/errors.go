package service

import (
	"errors"
	"fmt"
	"net/http"
)

// MinPasswordLength is the shortest password the server accepts.
const MinPasswordLength = 6

// ErrUnauthorized matches any error caused by a 401 response.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// NotFound reports whether the server answered 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ClientError reports a 4xx status other than 401.
func (e *APIError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusUnauthorized
}

// ValidationError is a local precondition failure. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetworkError is a transport failure: the server never produced a response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidatePasswordChange rejects a password change before it is sent:
// the current password must be given, and the new one must differ from it
// and be at least MinPasswordLength long.
func ValidatePasswordChange(currentPassword, newPassword string) error {
	if currentPassword == "" {
		return &ValidationError{Field: "current_password", Message: "current password required"}
	}
	if newPassword == currentPassword {
		return &ValidationError{Field: "new_password", Message: "new password must be different from current password"}
	}
	if len(newPassword) < MinPasswordLength {
		return &ValidationError{Field: "new_password", Message: fmt.Sprintf("new password must be at least %d characters", MinPasswordLength)}
	}
	return nil
}
