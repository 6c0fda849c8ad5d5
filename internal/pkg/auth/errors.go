package auth

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoKey        = errors.New("neither jwt secret nor public key configured")
)
