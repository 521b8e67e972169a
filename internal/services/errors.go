package services

import "errors"

// Business errors raised by the service layer. Handlers map these to HTTP
// status codes; services never deal in HTTP concerns.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrLicenceTaken       = errors.New("licence number already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is not active")
	ErrForbidden          = errors.New("operation not allowed")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
	ErrPasswordUnchanged  = errors.New("new password must differ from the current one")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrVerificationEmail  = errors.New("failed to send verification email")
)
