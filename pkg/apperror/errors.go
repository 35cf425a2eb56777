package apperror

import "net/http"

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	// Data carries a payload the client needs to resolve the error, e.g. the
	// computed quote that must be acknowledged before a collection is saved.
	Data interface{} `json:"data,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrInternalServer       = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict             = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrStorageUnavailable   = &AppError{Code: http.StatusInsufficientStorage, Message: "Local storage is full or unavailable"}
	ErrInvalidStateChange   = &AppError{Code: http.StatusConflict, Message: "Invalid state transition"}
	ErrPaymentGatewayFailed = &AppError{Code: http.StatusBadGateway, Message: "Payment gateway request failed"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewConfirmationRequiredError signals a soft condition the caller must
// acknowledge and resubmit. data is echoed back so the client can show it.
func NewConfirmationRequiredError(message string, data interface{}) *AppError {
	return &AppError{
		Code:    http.StatusPreconditionRequired,
		Message: message,
		Data:    data,
	}
}

// FieldErrors collects field errors in the order they are found.
type FieldErrors []FieldError

// Add appends a field error.
func (fe *FieldErrors) Add(field, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

// Err returns a validation error when any field error was collected, nil otherwise.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return NewValidationError(fe)
}
