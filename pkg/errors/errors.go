// Package errors provides structured error handling for the application
// Codes map onto process exit statuses in the command-line tool
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes
const (
	// Invalid input
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Infrastructure failures
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Business logic errors
	CodeRecipeNotFound          ErrorCode = "RECIPE_NOT_FOUND"
	CodeMealPlanNotFound        ErrorCode = "MEAL_PLAN_NOT_FOUND"
	CodeMealItemNotFound        ErrorCode = "MEAL_ITEM_NOT_FOUND"
	CodePreferencesNotFound     ErrorCode = "USER_PREFERENCES_NOT_FOUND"
	CodeInsufficientVariety     ErrorCode = "INSUFFICIENT_RECIPE_VARIETY"
	CodePreferencesTooStrict    ErrorCode = "PREFERENCES_TOO_STRICT"
	CodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// Predefined error constructors for common scenarios

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewExternalServiceError creates an external service error
func NewExternalServiceError(service string, cause error) *AppError {
	return NewAppError(
		CodeExternalServiceError,
		"External service error",
		fmt.Sprintf("Failed to communicate with %s", service),
	).WithCause(cause)
}

// Business domain specific errors

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID string) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %s does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// NewPreferencesNotFoundError creates a missing preferences error
func NewPreferencesNotFoundError(userID string) *AppError {
	return NewAppError(
		CodePreferencesNotFound,
		"User preferences not found",
		fmt.Sprintf("User %s has no stored preferences", userID),
	).WithMetadata("user_id", userID)
}

// NewMealPlanNotFoundError creates a meal plan not found error
func NewMealPlanNotFoundError(userID string) *AppError {
	return NewAppError(
		CodeMealPlanNotFound,
		"Meal plan not found",
		fmt.Sprintf("User %s has no meal plan", userID),
	).WithMetadata("user_id", userID)
}

// NewMealItemNotFoundError creates a meal item not found error
func NewMealItemNotFoundError(itemID string) *AppError {
	return NewAppError(
		CodeMealItemNotFound,
		"Meal item not found",
		fmt.Sprintf("Meal item with ID %s does not exist", itemID),
	).WithMetadata("meal_item_id", itemID)
}

// NewInsufficientVarietyError reports that a slot had no candidate recipes
func NewInsufficientVarietyError(cause error) *AppError {
	return NewAppError(
		CodeInsufficientVariety,
		"Could not find enough recipes",
		"Try adjusting your diet, intolerances or cuisine preferences",
	).WithCause(cause)
}

// NewPreferencesTooStrictError reports pools too small for a single day
func NewPreferencesTooStrictError(cause error) *AppError {
	return NewAppError(
		CodePreferencesTooStrict,
		"Preferences are too strict",
		"Not enough recipes match your preferences to build a plan",
	).WithCause(cause)
}

// NewInsufficientPermissionsError creates an insufficient permissions error
func NewInsufficientPermissionsError(action string) *AppError {
	return NewAppError(
		CodeInsufficientPermissions,
		"Insufficient permissions",
		fmt.Sprintf("You don't have permission to %s", action),
	).WithMetadata("action", action)
}

// Utility functions

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	if len(v) == 1 {
		return v[0].Message
	}

	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}

	return strings.Join(messages, "; ")
}

// NewValidationErrors creates validation errors from validator errors
func NewValidationErrors(errors []ValidationError) *AppError {
	validationErrs := ValidationErrors(errors)

	return NewAppError(
		CodeValidationFailed,
		"Validation failed",
		validationErrs.Error(),
	).WithMetadata("validation_errors", validationErrs)
}

// ErrorResponse is the JSON shape of a failed command
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in a response
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse converts any error into a response. Errors that are not
// an AppError are reported as internal errors.
func ToErrorResponse(err error) ErrorResponse {
	details := ErrorDetails{
		Code:      CodeInternal,
		Message:   err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		details.Code = appErr.Code
		details.Message = appErr.Message
		details.Details = appErr.Details
		details.Metadata = appErr.Metadata
	}
	return ErrorResponse{Error: details}
}
