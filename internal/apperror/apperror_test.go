package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("user", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("email", "email is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("tag", "already exists"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("only the author may delete a post"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("you must be logged in"),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "NotFound does not match ErrValidation",
			err:       NotFound("user", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Forbidden does not match ErrUnauthenticated",
			err:       Forbidden("nope"),
			target:    ErrUnauthenticated,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorsIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("deleting user abc: %w", NotFound("user", "abc"))
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is should see ErrNotFound through fmt.Errorf wrapping")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As should extract *AppError through wrapping")
	}
	if appErr.Message != "user not found with id abc" {
		t.Errorf("Message = %q", appErr.Message)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NotFound("queue", "q1")) {
		t.Error("IsNotFound should be true for NotFound errors")
	}
	if IsNotFound(Forbidden("nope")) {
		t.Error("IsNotFound should be false for Forbidden errors")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound should be false for nil")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound formats resource and id",
			err:         NotFound("opportunity", "xyz"),
			wantMessage: "opportunity not found with id xyz",
		},
		{
			name:        "ValidationFailed keeps the message",
			err:         ValidationFailed("dates", "start date must be before end date"),
			wantMessage: "start date must be before end date",
		},
		{
			name:        "Conflict prefixes the resource",
			err:         Conflict("applause", "already initialized"),
			wantMessage: "applause: already initialized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestValidationFailed_KeepsField(t *testing.T) {
	err := ValidationFailed("email", "email is not valid")
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}
