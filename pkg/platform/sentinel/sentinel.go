// Package sentinel holds the storage-level failures that services translate
// into domain errors. Stores wrap them with context; callers match with
// errors.Is.
package sentinel

import "errors"

var (
	// ErrNotFound means no account, reset code or record exists for the key.
	ErrNotFound = errors.New("not found")
	// ErrConflict means an account already uses the email.
	ErrConflict = errors.New("conflict")
	// ErrExpired means a reset code or token outlived its TTL.
	ErrExpired = errors.New("expired")
	// ErrAlreadyUsed means a reset code was already redeemed.
	ErrAlreadyUsed = errors.New("already used")
	// ErrInvalidState rejects arguments a store cannot act on, such as a
	// non-positive TTL.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnavailable means the backing service could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
