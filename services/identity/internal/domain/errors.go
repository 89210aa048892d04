package domain

import "errors"

// Failure classes surfaced by the identity service. Handlers map these to
// HTTP statuses; anything else is an internal fault and becomes a generic
// 500.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("user with this email already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)
