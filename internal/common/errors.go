// Package common defines shared constants and sentinel errors used across
// pushclip components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Session / identity errors.
	ErrorSignedOut  = errors.New("not signed in")
	ErrNoCredential = errors.New("no credential available")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Validation errors.
	ErrorEmptyClipText = errors.New("clip text is empty")
	ErrorEmptyLabel    = errors.New("label name is empty")
)
