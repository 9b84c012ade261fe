package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	CodeMissingInput ErrorCode = "MISSING_INPUT"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeStorage      ErrorCode = "STORAGE_ERROR"
	CodeExtraction   ErrorCode = "EXTRACTION_ERROR"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
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

func NewMissingInputError(field string) *DomainError {
	return NewError(CodeMissingInput, fmt.Sprintf("%s obrigatório", field), nil)
}

func NewInvalidInputError(field, value string) *DomainError {
	return NewError(CodeInvalidInput, fmt.Sprintf("invalid %s: %q", field, value), nil)
}

// NewStorageError keeps the storage message verbatim; it is what the API returns.
func NewStorageError(err error) *DomainError {
	return NewError(CodeStorage, err.Error(), err)
}

func NewExtractionError(source string, err error) *DomainError {
	return NewError(CodeExtraction, fmt.Sprintf("failed to extract questions from %s", source), err)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code ErrorCode) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}

// AsDomainError unwraps err to a *DomainError.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
