package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aymenbt/minishop/internal/errors"
	"github.com/go-playground/validator/v10"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	response := APIResponse{
		Success: true,
		Data:    data,
	}

	WriteJson(w, statusCode, response)
}

// Error writes the structured envelope for an error. Only the safe code and
// message leave the process; the wrapped cause stays in the server logs.
func Error(w http.ResponseWriter, err error) {

	var statusCode int
	var errorResponse *ErrorResponse

	if appErr, ok := errors.IsAppError(err); ok {
		statusCode = appErr.StatusCode
		errorResponse = &ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
		}

		if appErr.Detail != "" {
			errorResponse.Details = []string{appErr.Detail}
		}

	} else {

		statusCode = http.StatusInternalServerError
		errorResponse = &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "An unexpected error occured",
		}

	}

	response := APIResponse{
		Success: false,
		Error:   errorResponse,
	}

	WriteJson(w, statusCode, response)
}

// package sends the list of errors
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {

	var errMsgs []string

	for _, err := range errs {

		var message string

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field %s is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field %s must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("Field %s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field %s must be at most %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("Field %s must be greater than or equal to %s", err.Field(), err.Param())
		case "url":
			message = fmt.Sprintf("Field %s must be a valid URL", err.Field())
		default:
			message = fmt.Sprintf("Field %s is invalid: %s=%s", err.Field(), err.Tag(), err.Param())
		}

		errMsgs = append(errMsgs, message)

	}

	errorResponse := &ErrorResponse{
		Code:    errors.ErrCodeValidation,
		Message: "Validation failed",
		Details: errMsgs,
	}

	response := APIResponse{
		Success: false,
		Error:   errorResponse,
	}

	WriteJson(w, http.StatusBadRequest, response)

}
