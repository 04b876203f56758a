package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-grammar-checker/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeRuleNotFound     ErrorCode = "RULE_NOT_FOUND"
	ErrorCodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"
	ErrorCodeRequestCancelled ErrorCode = "REQUEST_CANCELLED"

	// Server Error Codes (5xx)
	ErrorCodeInternalError       ErrorCode = "INTERNAL_ERROR"
	ErrorCodeResourceUnavailable ErrorCode = "RESOURCE_UNAVAILABLE"
	ErrorCodeCheckFailed         ErrorCode = "CHECK_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendRuleNotFoundError sends a standardized rule not found error
func SendRuleNotFoundError(c *gin.Context, ruleID string) {
	SendError(c, http.StatusNotFound, ErrorCodeRuleNotFound,
		"Rule '"+ruleID+"' not found")
}

// SendJobNotFoundError sends a standardized job not found error
func SendJobNotFoundError(c *gin.Context, jobID string) {
	SendError(c, http.StatusNotFound, ErrorCodeJobNotFound,
		"Job '"+jobID+"' not found")
}

// SendEngineError maps an engine error to the matching status and code
func SendEngineError(c *gin.Context, operation string, err error) {
	var ruleErr *errors.RuleNotFoundError
	var validationErr *errors.ValidationError

	switch {
	case stderrors.As(err, &ruleErr):
		SendRuleNotFoundError(c, ruleErr.RuleID)
	case stderrors.As(err, &validationErr):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed",
			ErrorDetail{Field: validationErr.Field, Message: validationErr.Message, Code: "VALIDATION_ERROR"})
	case stderrors.Is(err, errors.ErrJobNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeJobNotFound, err.Error())
	case stderrors.Is(err, errors.ErrResourceUnavailable):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeResourceUnavailable,
			"Linguistic resource unavailable during "+operation+": "+err.Error())
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		SendError(c, http.StatusRequestTimeout, ErrorCodeRequestCancelled, operation+" was cancelled: "+err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeCheckFailed,
			"Operation failed ("+operation+"): "+err.Error())
	}
}
