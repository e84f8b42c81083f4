package auth

import "errors"

var (
	ErrNotFound           = errors.New("auth: not found")
	ErrConflict           = errors.New("auth: already exists")
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// ErrInvalidToken indicates the token failed validation. Expiry, bad
// signature and malformed tokens all present uniformly as this error.
var ErrInvalidToken = errors.New("invalid token")
