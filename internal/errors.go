package internal

import "errors"

// Persistence errors shared by the store and its callers.
var (
	ErrUserNotFound         = errors.New("user-not-found")
	ErrDuplicateUsername    = errors.New("duplicate-username")
	UnexpectedDatabaseError = errors.New("unexpected-database-error")
)
