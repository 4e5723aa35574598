package auth

import "errors"

var (
	ErrMissingCredentials = errors.New("missing-credentials")
	ErrPasswordTooLong    = errors.New("password-too-long")
	ErrUsernameTaken      = errors.New("username-taken")
	ErrInvalidCredentials = errors.New("invalid-credentials")
	ErrInvalidToken       = errors.New("invalid-token")
)
