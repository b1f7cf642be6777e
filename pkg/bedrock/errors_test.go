package bedrock

import (
	"errors"
	"testing"

	"github.com/aws/smithy-go"
)

func apiErr(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "boom"}
}

func TestMapProviderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want interface{}
	}{
		{"validation", apiErr("ValidationException"), &ValidationError{}},
		{"permission", apiErr("AccessDeniedException"), &PermissionError{}},
		{"not found", apiErr("ResourceNotFoundException"), &NotFoundError{}},
		{"throttling", apiErr("ThrottlingException"), &RateLimitError{}},
		{"unknown code", apiErr("SomethingElseException"), &UnhandledProviderError{}},
		{"non api error", errors.New("connection reset"), &UnhandledProviderError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapProviderError("anthropic.claude-instant-v1", tt.err)

			var matched bool
			switch tt.want.(type) {
			case *ValidationError:
				var e *ValidationError
				matched = errors.As(mapped, &e)
			case *PermissionError:
				var e *PermissionError
				matched = errors.As(mapped, &e)
			case *NotFoundError:
				var e *NotFoundError
				matched = errors.As(mapped, &e)
				if matched && e.ModelID != "anthropic.claude-instant-v1" {
					t.Errorf("NotFoundError.ModelID = %q", e.ModelID)
				}
			case *RateLimitError:
				var e *RateLimitError
				matched = errors.As(mapped, &e)
			case *UnhandledProviderError:
				var e *UnhandledProviderError
				matched = errors.As(mapped, &e)
			}
			if !matched {
				t.Errorf("mapProviderError(%v) = %T, want %T", tt.err, mapped, tt.want)
			}
			if !errors.Is(mapped, tt.err) {
				t.Errorf("mapped error does not unwrap to the original")
			}
		})
	}
}
