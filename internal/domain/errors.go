package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Session errors
	CodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// Document errors
	CodeExtractionFailure ErrorCode = "EXTRACTION_FAILURE"
	CodeDocumentTooShort  ErrorCode = "DOCUMENT_TOO_SHORT"

	// Model gateway errors
	CodeEmptyGeneration ErrorCode = "EMPTY_GENERATION"
	CodeSafetyBlocked   ErrorCode = "SAFETY_BLOCKED"
	CodeTransportError  ErrorCode = "TRANSPORT_ERROR"

	// Quiz response errors
	CodeMalformedResponse     ErrorCode = "MALFORMED_RESPONSE"
	CodeUnexpectedShape       ErrorCode = "UNEXPECTED_SHAPE"
	CodeInsufficientQuestions ErrorCode = "INSUFFICIENT_QUESTIONS"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a diagnostic key/value to the error and returns it.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err is, or wraps, a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Session not found: %s", sessionID), nil)
}

func NewInvalidTransitionError(from SessionStatus, action string) *DomainError {
	return NewError(CodeInvalidTransition, fmt.Sprintf("Cannot %s while session is %s", action, from), nil).
		WithContext("status", string(from))
}

func NewExtractionFailureError(message string, err error) *DomainError {
	return NewError(CodeExtractionFailure, message, err)
}

func NewDocumentTooShortError(length, minimum int) *DomainError {
	return NewError(CodeDocumentTooShort,
		"The extracted text is very short. Please ensure it's a valid document with substantial text.", nil).
		WithContext("length", length).
		WithContext("minimum", minimum)
}

func NewEmptyGenerationError(purpose string) *DomainError {
	return NewError(CodeEmptyGeneration, fmt.Sprintf("The model returned an empty %s. Please try again.", purpose), nil)
}

func NewSafetyBlockedError(purpose string, err error) *DomainError {
	return NewError(CodeSafetyBlocked, fmt.Sprintf("%s generation blocked by safety filters", purpose), err)
}

func NewTransportError(err error) *DomainError {
	return NewError(CodeTransportError, "Failed to reach the language model service", err)
}

func NewMalformedResponseError(raw string, err error) *DomainError {
	return NewError(CodeMalformedResponse, "Failed to decode the quiz data from the model", err).
		WithContext("raw", raw)
}

func NewUnexpectedShapeError(message string) *DomainError {
	return NewError(CodeUnexpectedShape, message, nil)
}

func NewInsufficientQuestionsError(count, minimum int) *DomainError {
	return NewError(CodeInsufficientQuestions,
		fmt.Sprintf("The model generated %d questions, but at least %d were requested. Please try again.", count, minimum), nil).
		WithContext("count", count).
		WithContext("minimum", minimum)
}
