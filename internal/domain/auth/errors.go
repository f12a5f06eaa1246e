package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
	ErrMFANotConfigured   = errors.New("mfa setup required")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain a letter and a digit")
)
