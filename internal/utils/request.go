package utils

import (
	"net/http"

	apperrors "github.com/aymenbt/minishop/internal/errors"
	"github.com/aymenbt/minishop/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, apperrors.BadRequestError("Invalid request body").WithError(err))
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		response.Error(w, apperrors.ValidationError("Invalid input data").WithError(err))
		return false
	}

	return true

}

// ParseID reads a path value and parses it as a UUID.
func ParseID(r *http.Request, name string) (uuid.UUID, error) {

	raw := r.PathValue(name)
	if raw == "" {
		return uuid.Nil, apperrors.BadRequestError("Missing " + name + " path parameter")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.BadRequestError("Invalid " + name + " format").WithError(err)
	}

	return id, nil
}
