package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeDatabaseError   = "DATABASE_ERROR"
	ErrCodeDuplicateEntry  = "DUPLICATE_ENTRY"
	ErrCodeThirdPartyError = "THIRD_PARTY_ERROR"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"

	// cart / checkout domain codes
	ErrCodeDuplicateItem       = "DUPLICATE_ITEM"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeItemNotFound        = "ITEM_NOT_FOUND"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeAddressRequired     = "ADDRESS_REQUIRED"
	ErrCodeOrderCreationFailed = "ORDER_CREATION_FAILED"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func DuplicateEntryError(message string) *AppError {
	return NewAppError(ErrCodeDuplicateEntry, message, http.StatusConflict)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusInternalServerError)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

// DuplicateItemError rejects a second add of the same product; quantities are
// never merged on duplicate add.
func DuplicateItemError(message string) *AppError {
	return NewAppError(ErrCodeDuplicateItem, message, http.StatusBadRequest)
}

func ProductNotFoundError(message string) *AppError {
	return NewAppError(ErrCodeProductNotFound, message, http.StatusNotFound)
}

func ItemNotFoundError(message string) *AppError {
	return NewAppError(ErrCodeItemNotFound, message, http.StatusNotFound)
}

func InsufficientStockError(message string) *AppError {
	return NewAppError(ErrCodeInsufficientStock, message, http.StatusBadRequest)
}

func AddressRequiredError(message string) *AppError {
	return NewAppError(ErrCodeAddressRequired, message, http.StatusBadRequest)
}

func OrderCreationFailedError(message string) *AppError {
	return NewAppError(ErrCodeOrderCreationFailed, message, http.StatusInternalServerError)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
