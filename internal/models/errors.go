package models

import "errors"

// Token errors returned by the verifier and mapped to 401 responses by the middleware.
var (
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
)
