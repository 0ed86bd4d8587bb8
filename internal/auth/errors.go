package auth

import "errors"

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrOwnerMismatch     = errors.New("owner does not match credential")
)
