package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Generation specific errors
	ErrArticleNotFound  ErrorCode = "ARTICLE_NOT_FOUND"
	ErrUpstream         ErrorCode = "UPSTREAM_ERROR"
	ErrContentTooShort  ErrorCode = "CONTENT_TOO_SHORT"
	ErrLLMServiceError  ErrorCode = "LLM_SERVICE_ERROR"
	ErrInvalidQuizShape ErrorCode = "INVALID_QUIZ"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewArticleNotFoundError(articleName string) *DomainError {
	return NewError(ErrArticleNotFound, fmt.Sprintf(
		"Wikipedia article not found: '%s'. Please check the URL spelling. Common issues:\n"+
			"• Typos in the article name (e.g., 'kohili' should be 'Kohli')\n"+
			"• Missing capital letters (Wikipedia is case-sensitive)\n"+
			"• Article doesn't exist\n\n"+
			"Try searching for the correct article name on Wikipedia first.", articleName), nil)
}

func NewUpstreamError(message string, err error) *DomainError {
	return NewError(ErrUpstream, message, err)
}

func NewContentTooShortError(message string) *DomainError {
	return NewError(ErrContentTooShort, message, nil)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to generate quiz with the language model", err)
}

func NewInvalidQuizError(err error) *DomainError {
	return NewError(ErrInvalidQuizShape, "The language model returned an unusable quiz", err)
}
