package auth

import "errors"

// ErrEmailExists indicates a duplicate email address.
var ErrEmailExists = errors.New("email already exists")

// Error codes carried by apperrors.AppError values returned from Service.
const (
	CodeInvalidInput       = "invalid_input"
	CodeEmailExists        = "email_exists"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeUserNotFound       = "user_not_found"
	CodeAuthDisabled       = "auth_disabled"
	CodeAuthError          = "auth_error"
)
