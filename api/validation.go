// Package api exposes the grammar checker over HTTP.
package api

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/gcbaptista/go-grammar-checker/model"
)

var (
	validate    = newValidator()
	ruleIDRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("ruleid", func(fl validator.FieldLevel) bool {
		return ruleIDRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// CheckRequest is the body of POST /v1/check
type CheckRequest struct {
	Text  string   `json:"text" validate:"required,max=100000"`
	Rules []string `json:"rules,omitempty" validate:"omitempty,max=50,dive,ruleid"`
}

// BatchCheckRequest is the body of POST /v1/jobs/check
type BatchCheckRequest struct {
	Texts []string `json:"texts" validate:"required,min=1,dive,required,max=100000"`
	Rules []string `json:"rules,omitempty" validate:"omitempty,max=50,dive,ruleid"`
}

// RuleUpdateRequest is the body of PATCH /v1/rules/:ruleId
type RuleUpdateRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateStruct runs the struct tag validators and converts their errors
func ValidateStruct(target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	err := validate.Struct(target)
	if err == nil {
		return result
	}

	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) {
		result.AddError("request_body", err.Error())
		return result
	}
	for _, fe := range fieldErrors {
		result.AddError(jsonFieldPath(fe.Namespace()), describe(fe))
	}
	return result
}

// jsonFieldPath turns "CheckRequest.Rules[0]" into "rules[0]"
func jsonFieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		path = namespace
	}
	return strings.ToLower(path)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field is required"
	case "min":
		return fmt.Sprintf("Must contain at least %s element(s)", fe.Param())
	case "max":
		return fmt.Sprintf("Must not exceed %s", fe.Param())
	case "ruleid":
		return fmt.Sprintf("'%v' is not a valid rule ID", fe.Value())
	default:
		return fmt.Sprintf("Failed '%s' validation", fe.Tag())
	}
}

// ValidateJSONBinding binds the JSON body into target and validates it
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	if err := c.ShouldBindJSON(target); err != nil {
		result := &ValidationResult{Valid: true}
		result.AddError("request_body", "Invalid request body: "+err.Error())
		return result
	}
	return ValidateStruct(target)
}

// ValidateJobStatus checks an optional status filter
func ValidateJobStatus(status string) (*model.JobStatus, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	if status == "" {
		return nil, result
	}

	s := model.JobStatus(status)
	switch s {
	case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
		model.JobStatusFailed, model.JobStatusCancelled:
		return &s, result
	}
	result.AddError("status", "Unknown job status '"+status+"'")
	return nil, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
