/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import "fmt"

// APIError provides structured error information for HTTP and --json responses.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAPIError creates a new structured API error
func NewAPIError(code string, message string, details map[string]any) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
