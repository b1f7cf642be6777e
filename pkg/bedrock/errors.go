package bedrock

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Typed failures raised by Invoke. The adapter never retries; throttling
// is surfaced as RateLimitError so the caller can decide to back off.

type ValidationError struct{ Err error }

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid request to Bedrock: %v", e.Err) }
func (e *ValidationError) Unwrap() error { return e.Err }

type PermissionError struct{ Err error }

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied to access Bedrock: %v", e.Err)
}
func (e *PermissionError) Unwrap() error { return e.Err }

type NotFoundError struct {
	ModelID string
	Err     error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Bedrock model %q not found: %v", e.ModelID, e.Err)
}
func (e *NotFoundError) Unwrap() error { return e.Err }

type RateLimitError struct{ Err error }

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Bedrock request rate limit exceeded: %v", e.Err)
}
func (e *RateLimitError) Unwrap() error { return e.Err }

type UnhandledProviderError struct{ Err error }

func (e *UnhandledProviderError) Error() string { return fmt.Sprintf("unhandled Bedrock error: %v", e.Err) }
func (e *UnhandledProviderError) Unwrap() error { return e.Err }

// mapProviderError translates smithy API error codes into the typed
// taxonomy above. Non-API errors (transport, context cancellation)
// become UnhandledProviderError.
func mapProviderError(modelID string, err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return &UnhandledProviderError{Err: err}
	}

	switch apiErr.ErrorCode() {
	case "ValidationException":
		return &ValidationError{Err: err}
	case "AccessDeniedException":
		return &PermissionError{Err: err}
	case "ResourceNotFoundException":
		return &NotFoundError{ModelID: modelID, Err: err}
	case "ThrottlingException":
		return &RateLimitError{Err: err}
	default:
		return &UnhandledProviderError{Err: err}
	}
}
