package service

import (
	"errors"

	"github.com/forgo/iglesia/api/pkg/jwt"
)

// Centralized service layer errors for authentication. Collection and
// relation operations report expected failures as *model.APIError instead.

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrTokenRevoked       = jwt.ErrTokenRevoked
)
