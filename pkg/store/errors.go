package store

import "errors"

// Common errors for user and upload record operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUploadRecordNotFound = errors.New("upload record not found")

	errUsernameRequired = errors.New("username is required")
	errInvalidRole      = errors.New("invalid role")
)
