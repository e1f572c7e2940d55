package auth

import "errors"

// Credential validation failures. They are caught at the transport boundary
// and mapped to 400/401 responses; none of them may surface as a 500.
var (
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrCategoryMismatch = errors.New("token category mismatch")
	ErrMissingToken     = errors.New("credential missing")
	ErrSessionNotFound  = errors.New("refresh session not found")
)
