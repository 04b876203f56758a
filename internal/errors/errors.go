package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrResourceUnavailable is returned when a linguistic resource (lexicon, pattern table)
	// could not be loaded or is no longer usable. Callers treat it as fatal.
	ErrResourceUnavailable = errors.New("linguistic resource unavailable")

	// ErrWordNotFound is returned when the tagger or synthesizer has no entry for a word.
	// It is never fatal: rules treat such words as correct.
	ErrWordNotFound = errors.New("word not found")

	// ErrRuleNotFound is returned when a rule ID is not registered
	ErrRuleNotFound = errors.New("rule not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPattern is returned when an anti-pattern table entry cannot be compiled
	ErrInvalidPattern = errors.New("invalid pattern")
)

// ResourceError represents a failure to load or access a linguistic resource
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resource '%s' unavailable: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("resource '%s' unavailable", e.Resource)
}

func (e *ResourceError) Is(target error) bool {
	return target == ErrResourceUnavailable
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(resource string, err error) *ResourceError {
	return &ResourceError{Resource: resource, Err: err}
}

// LookupError represents a word missing from the lexicon
type LookupError struct {
	Word string
	Tag  string
}

func (e *LookupError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("no form of '%s' for tag '%s'", e.Word, e.Tag)
	}
	return fmt.Sprintf("word '%s' not found", e.Word)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrWordNotFound
}

// NewLookupError creates a new LookupError. An optional tag names the requested
// synthesis target.
func NewLookupError(word string, tag ...string) *LookupError {
	err := &LookupError{Word: word}
	if len(tag) > 0 {
		err.Tag = tag[0]
	}
	return err
}

// RuleNotFoundError represents a rule not found error with context
type RuleNotFoundError struct {
	RuleID string
}

func (e *RuleNotFoundError) Error() string {
	return fmt.Sprintf("rule with ID '%s' not found", e.RuleID)
}

func (e *RuleNotFoundError) Is(target error) bool {
	return target == ErrRuleNotFound
}

// NewRuleNotFoundError creates a new RuleNotFoundError
func NewRuleNotFoundError(ruleID string) *RuleNotFoundError {
	return &RuleNotFoundError{RuleID: ruleID}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PatternError points at an anti-pattern table entry that failed to compile
type PatternError struct {
	Table string
	Index int
	Err   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %d in table '%s': %v", e.Index, e.Table, e.Err)
}

func (e *PatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// NewPatternError creates a new PatternError
func NewPatternError(table string, index int, err error) *PatternError {
	return &PatternError{Table: table, Index: index, Err: err}
}
