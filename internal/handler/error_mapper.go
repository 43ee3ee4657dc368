package handler

import (
	"errors"

	"github.com/forgo/iglesia/api/internal/model"
	"github.com/forgo/iglesia/api/internal/service"
	"github.com/forgo/iglesia/api/pkg/jwt"
)

// MapServiceError converts an error returned by a service into the APIError
// sent to the client. APIErrors pass through unchanged; anything that is not
// recognised becomes a generic 500 so internal failure text never leaks.
func MapServiceError(err error) *model.APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := model.AsAPIError(err); ok {
		return apiErr
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.NewUnauthorizedError("token expired")
	case errors.Is(err, jwt.ErrTokenRevoked):
		return model.NewUnauthorizedError("token revoked")
	case errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrInvalidSignature),
		errors.Is(err, jwt.ErrTokenNotYetValid):
		return model.NewUnauthorizedError("invalid token")

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("User")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrInvalidEmail):
		return model.NewValidationError([]model.FieldError{{Field: "email", Message: err.Error()}})
	case errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "password", Message: err.Error()}})

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}
