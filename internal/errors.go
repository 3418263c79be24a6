package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeCapacity     ErrorType = "CAPACITY_EXCEEDED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeCompanyRequired  ErrorCode = "COMPANY_REQUIRED"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidPriority  ErrorCode = "INVALID_PRIORITY"
	ErrCodeInvalidType      ErrorCode = "INVALID_REQUEST_TYPE"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeTerminalStatus   ErrorCode = "REQUEST_TERMINAL"

	ErrCodeRequestNotFound   ErrorCode = "REQUEST_NOT_FOUND"
	ErrCodeEquipmentNotFound ErrorCode = "EQUIPMENT_NOT_FOUND"
	ErrCodeCategoryNotFound  ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeCompanyNotFound   ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"

	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeAlreadyClaimed     ErrorCode = "REQUEST_ALREADY_CLAIMED"
	ErrCodeAlreadyAssigned    ErrorCode = "EMPLOYEE_ALREADY_ASSIGNED"
	ErrCodeCapacityExceeded   ErrorCode = "CATEGORY_CAPACITY_EXCEEDED"
	ErrCodeDuplicateName      ErrorCode = "DUPLICATE_NAME"
	ErrCodeDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeIneligibleEmployee ErrorCode = "EMPLOYEE_NOT_ELIGIBLE"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType `json:"type"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewCapacityError reports a full category roster. Surfaced as 400 rather
// than 409 to match the public contract.
func NewCapacityError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeCapacity,
		Code:       ErrCodeCapacityExceeded,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrCompanyRequired = NewValidationError("user must be associated with a company", ErrCodeCompanyRequired)

	// Cross-tenant lookups resolve to not-found so callers cannot probe
	// for rows belonging to other companies.
	ErrRequestNotFound   = NewNotFoundError("request not found", ErrCodeRequestNotFound)
	ErrEquipmentNotFound = NewNotFoundError("equipment not found", ErrCodeEquipmentNotFound)
	ErrCategoryNotFound  = NewNotFoundError("category not found", ErrCodeCategoryNotFound)
	ErrCompanyNotFound   = NewNotFoundError("company not found", ErrCodeCompanyNotFound)
	ErrUserNotFound      = NewNotFoundError("user not found", ErrCodeUserNotFound)

	ErrForbidden       = NewForbiddenError("not authorized for this resource", ErrCodeForbidden)
	ErrRequestTerminal = NewValidationError("request is in a terminal status and cannot be modified", ErrCodeTerminalStatus)
	ErrAlreadyClaimed  = NewConflictError("request is already assigned", ErrCodeAlreadyClaimed)

	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("user account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType `json:"type"`
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
	})
}
