package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCharityPending     = errors.New("charity application pending approval")
	ErrCharityRejected    = errors.New("charity application rejected")
	ErrUnknownRole        = errors.New("unknown role in auth response")
)
