// Package errors provides custom error types for the FoodTracker API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrWrongPassword  = &AppError{Code: "WRONG_PASSWORD", Message: "Current password is incorrect", StatusCode: http.StatusBadRequest}
	ErrInvalidToken   = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
)

// Pantry errors. Non-members get ErrPantryNotFound so pantry existence is
// not revealed.
var (
	ErrPantryNotFound      = &AppError{Code: "PANTRY_NOT_FOUND", Message: "Pantry not found", StatusCode: http.StatusNotFound}
	ErrPantryOwnerRequired = &AppError{Code: "PANTRY_OWNER_REQUIRED", Message: "Only the pantry owner can do this", StatusCode: http.StatusForbidden}
	ErrOwnerCannotLeave    = &AppError{Code: "OWNER_CANNOT_LEAVE", Message: "The owner cannot leave or be removed from the pantry", StatusCode: http.StatusBadRequest}
	ErrMemberNotFound      = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Member not found in this pantry", StatusCode: http.StatusNotFound}
	ErrAlreadyMember       = &AppError{Code: "ALREADY_MEMBER", Message: "You are already a member of this pantry", StatusCode: http.StatusBadRequest}
	ErrInvitationInvalid   = &AppError{Code: "INVITATION_INVALID", Message: "Invitation is invalid or has expired", StatusCode: http.StatusNotFound}
)

// Product errors.
var (
	ErrProductNotFound         = &AppError{Code: "PRODUCT_NOT_FOUND", Message: "Product not found", StatusCode: http.StatusNotFound}
	ErrInsufficientQuantity    = &AppError{Code: "INSUFFICIENT_QUANTITY", Message: "Amount exceeds the quantity left", StatusCode: http.StatusBadRequest}
	ErrInvalidAmountAdjustment = &AppError{Code: "INVALID_AMOUNT_ADJUSTMENT", Message: "Current amount can only grow together with the initial amount", StatusCode: http.StatusBadRequest}
	ErrInvalidExpiration       = &AppError{Code: "INVALID_EXPIRATION", Message: "Expiration date is required and cannot be in the past", StatusCode: http.StatusUnprocessableEntity}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
)

// External service errors.
var (
	ErrExternalUnavailable = &AppError{Code: "EXTERNAL_UNAVAILABLE", Message: "External product service is unavailable", StatusCode: http.StatusServiceUnavailable}
	ErrExternalBadResponse = &AppError{Code: "EXTERNAL_BAD_RESPONSE", Message: "External product service returned an error", StatusCode: http.StatusBadGateway}
	ErrStorageUnavailable  = &AppError{Code: "STORAGE_UNAVAILABLE", Message: "File storage is not configured", StatusCode: http.StatusServiceUnavailable}
)
