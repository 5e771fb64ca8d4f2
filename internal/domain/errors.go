package domain

import "errors"

// Common domain errors
var (
	// Corpus errors
	ErrDataUnavailable = errors.New("corpus data unavailable")
	ErrUnknownSplit    = errors.New("unknown corpus split")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrRecordMismatch  = errors.New("token and tag lengths differ")

	// Prediction errors
	ErrMalformedPrediction = errors.New("malformed prediction")

	// Model client errors
	ErrMissingCredential = errors.New("missing model API credential")
	ErrLLMUnavailable    = errors.New("LLM service unavailable")
	ErrLLMRequestFailed  = errors.New("LLM request failed")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyContent = errors.New("content cannot be empty")
)

// DomainError wraps a domain error with additional context
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(err error, message string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
	}
}
