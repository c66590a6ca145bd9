package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidFormat      = errors.New("invalid token format")

	ErrPermissionDenied = errors.New("permission denied")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	ErrUserNotFound          = fmt.Errorf("user not found: %w", ErrResourceNotFound)
	ErrUsernameAlreadyExists = fmt.Errorf("username already exists: %w", ErrBadRequest)
)

// Domain errors wrap one of the generic errors above so handlers can map them
// to a status code with errors.Is.
var (
	ErrCourseNotFound  = fmt.Errorf("course not found: %w", ErrResourceNotFound)
	ErrSectionNotFound = fmt.Errorf("section not found: %w", ErrResourceNotFound)
	ErrLessonNotFound  = fmt.Errorf("lesson not found: %w", ErrResourceNotFound)
	ErrInvalidPrice    = fmt.Errorf("price must not be negative: %w", ErrValidationFailed)

	ErrEnrollmentNotFound     = fmt.Errorf("enrollment not found: %w", ErrResourceNotFound)
	ErrAlreadyEnrolled        = fmt.Errorf("user already enrolled in course: %w", ErrBadRequest)
	ErrProgressNotFound       = fmt.Errorf("lesson progress not found: %w", ErrResourceNotFound)
	ErrProgressAlreadyTracked = fmt.Errorf("lesson progress already exists: %w", ErrBadRequest)

	ErrEventNotFound        = fmt.Errorf("event not found: %w", ErrResourceNotFound)
	ErrInvalidEventCategory = fmt.Errorf("invalid event category: %w", ErrValidationFailed)
	ErrAlreadyRegistered    = fmt.Errorf("user already registered for event: %w", ErrBadRequest)
	ErrNotRegistered        = fmt.Errorf("user not registered for event: %w", ErrResourceNotFound)
)

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewUnauthorizedError creates a new custom error for a missing or invalid identity.
func NewUnauthorizedError(message string) error {
	return &CustomError{Err: ErrUnauthorized, Message: message}
}

// Is returns whether err matches target or any of errList.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError carries a user facing message on top of a sentinel error.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// UserMessage returns the message of the outermost CustomError in the chain, if any.
func UserMessage(err error) (string, bool) {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message, true
	}
	return "", false
}
