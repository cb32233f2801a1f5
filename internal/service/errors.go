package service

import (
	"errors"
	"fmt"
)

// Errors returned by AutomationClient. Callers match them with errors.Is;
// the wrapped cause is kept in the chain.
var (
	ErrValidation          = errors.New("validation failed")
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrCredentialsExpired  = errors.New("credentials still expired after refresh")
	ErrTokenRefresh        = errors.New("token refresh failed")
	ErrSubmission          = errors.New("webhook submission failed")
	ErrPersistence         = errors.New("job persistence failed")
	ErrJobNotFound         = errors.New("job not found")
)

// ValidationError describes the first rule a CreateJobRequest violates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("missing required field: %s", field)}
}
