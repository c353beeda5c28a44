package mcpserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ErrorCategory classifies failures reported by the server
type ErrorCategory string

const (
	ErrorCategoryValidation ErrorCategory = "validation"
	ErrorCategoryRateLimit  ErrorCategory = "rate_limit"
	ErrorCategorySystem     ErrorCategory = "system"
)

// RedactError wraps a failure with the request it belongs to
type RedactError struct {
	Category    ErrorCategory
	OriginalErr error
	RequestID   string
	Timestamp   time.Time
	Details     map[string]interface{}
}

func (e RedactError) Error() string {
	return fmt.Sprintf("[%s] %s (request: %s)", e.Category, e.OriginalErr.Error(), e.RequestID)
}

func (e RedactError) Unwrap() error {
	return e.OriginalErr
}

func newRedactError(category ErrorCategory, err error, requestID string, details map[string]interface{}) RedactError {
	return RedactError{
		Category:    category,
		OriginalErr: err,
		RequestID:   requestID,
		Timestamp:   time.Now(),
		Details:     details,
	}
}

// CategoryOf returns the category of err, or system for unclassified errors
func CategoryOf(err error) ErrorCategory {
	var redactErr RedactError
	if errors.As(err, &redactErr) {
		return redactErr.Category
	}
	return ErrorCategorySystem
}

// ErrorReporter logs errors with their request metadata
type ErrorReporter struct {
	logger hclog.Logger
}

// NewErrorReporter creates a new error reporter
func NewErrorReporter(logger hclog.Logger) *ErrorReporter {
	return &ErrorReporter{logger: logger}
}

// ReportError logs err; validation and rate limit failures are warnings
func (e *ErrorReporter) ReportError(err error) {
	args := []interface{}{"error", err.Error()}

	var redactErr RedactError
	if errors.As(err, &redactErr) {
		args = append(args,
			"category", string(redactErr.Category),
			"request_id", redactErr.RequestID,
		)
		for k, v := range redactErr.Details {
			args = append(args, k, v)
		}
	}

	switch CategoryOf(err) {
	case ErrorCategoryValidation, ErrorCategoryRateLimit:
		e.logger.Warn("request rejected", args...)
	default:
		e.logger.Error("request failed", args...)
	}
}
