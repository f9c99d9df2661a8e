package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("TC-TEST-1000", "test message"),
			expected: "[TC-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("TC-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[TC-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	wrapped := ErrPersistenceFailure.WithCause(fmt.Errorf("disk full"))
	if !errors.Is(wrapped, ErrPersistenceFailure) {
		t.Error("wrapped error should match ErrPersistenceFailure")
	}
	if errors.Is(wrapped, ErrInvalidToken) {
		t.Error("persistence failure should not match ErrInvalidToken")
	}

	outer := fmt.Errorf("add: %w", wrapped)
	if !errors.Is(outer, ErrPersistenceFailure) {
		t.Error("errors.Is should see through fmt wrapping")
	}
	if errors.Is(ErrPersistenceFailure, fmt.Errorf("other")) {
		t.Error("should not match non-DomainError")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying cause")
	err := ErrPersistenceFailure.WithCause(cause)

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if ErrPersistenceFailure.Cause != nil {
		t.Error("WithCause should not modify the sentinel")
	}
}

func TestGetErrorCode(t *testing.T) {
	if code := GetErrorCode(fmt.Errorf("x: %w", ErrInvalidToken)); code != "TC-TOKN-4000" {
		t.Errorf("GetErrorCode = %q", code)
	}
	if code := GetErrorCode(errors.New("plain")); code != "" {
		t.Errorf("GetErrorCode(plain) = %q, want empty", code)
	}
	if code := GetErrorCode(ErrPersistenceFailure.WithCause(errors.New("disk"))); code != "TC-SYS-5001" {
		t.Errorf("GetErrorCode(with cause) = %q", code)
	}
}
