package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", ValidationFailed("email", "email is required"), ErrValidation},
		{"unauthorized", Unauthorized("invalid email or password"), ErrUnauthorized},
		{"not found", NotFound("job", "abc123"), ErrNotFound},
		{"conflict", Conflict("an account with that email already exists"), ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Services wrap repository errors; the HTTP layer must still
			// see the category through the chain.
			wrapped := fmt.Errorf("service: doing thing: %w", tt.err)

			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(wrapped, sentinel) = false for %v", tt.err)
			}

			var appErr *AppError
			if !errors.As(wrapped, &appErr) {
				t.Fatal("errors.As failed to extract *AppError")
			}
			if appErr.Message == "" {
				t.Error("AppError.Message is empty")
			}
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	err := NotFound("job", "xyz")
	want := "job not found with id xyz"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationFailed_Field(t *testing.T) {
	err := ValidationFailed("company", "company is required")
	if err.Field != "company" {
		t.Errorf("Field = %q, want %q", err.Field, "company")
	}
}
