package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestResourceError(t *testing.T) {
	err := NewResourceError("lexicon", io.ErrUnexpectedEOF)

	expectedMsg := "resource 'lexicon' unavailable: unexpected EOF"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrResourceUnavailable) {
		t.Error("Expected error to match ErrResourceUnavailable sentinel")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("Expected error to unwrap to the cause")
	}
	if errors.Is(err, ErrWordNotFound) {
		t.Error("Resource errors must not look like missing words")
	}

	bare := NewResourceError("tables", nil)
	if bare.Error() != "resource 'tables' unavailable" {
		t.Errorf("Unexpected message '%s'", bare.Error())
	}
}

func TestLookupError(t *testing.T) {
	err := NewLookupError("Xyzzy")

	expectedMsg := "word 'Xyzzy' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	withTag := NewLookupError("Haus", "SUB:DAT:PLU:NEU")
	expectedMsg2 := "no form of 'Haus' for tag 'SUB:DAT:PLU:NEU'"
	if withTag.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, withTag.Error())
	}

	wrapped := fmt.Errorf("synthesize: %w", withTag)
	if !errors.Is(wrapped, ErrWordNotFound) {
		t.Error("Expected wrapped error to match ErrWordNotFound sentinel")
	}
	if errors.Is(wrapped, ErrResourceUnavailable) {
		t.Error("Missing words must not be fatal")
	}
}

func TestRuleNotFoundError(t *testing.T) {
	err := NewRuleNotFoundError("DE_FOO")

	expectedMsg := "rule with ID 'DE_FOO' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
	if !errors.Is(err, ErrRuleNotFound) {
		t.Error("Expected error to match ErrRuleNotFound sentinel")
	}
}

func TestJobNotFoundError(t *testing.T) {
	jobID := "job-456"
	err := NewJobNotFoundError(jobID)

	expectedMsg := "job with ID 'job-456' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrJobNotFound) {
		t.Error("Expected error to match ErrJobNotFound sentinel")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{"with field", "text", "must not be empty", "validation error for field 'text': must not be empty"},
		{"without field", "", "bad request", "validation error: bad request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)
			if err.Error() != tt.expected {
				t.Errorf("Expected error message '%s', got '%s'", tt.expected, err.Error())
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Error("Expected error to match ErrInvalidInput sentinel")
			}
		})
	}
}

func TestPatternError(t *testing.T) {
	cause := errors.New("missing closing )")
	err := NewPatternError("agreement", 12, cause)

	expectedMsg := "pattern 12 in table 'agreement': missing closing )"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
	if !errors.Is(err, ErrInvalidPattern) {
		t.Error("Expected error to match ErrInvalidPattern sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to the cause")
	}
}
