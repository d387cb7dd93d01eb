package repository

import "errors"

// Sentinel errors shared by all repositories. Postgres implementations
// translate driver errors into these so callers never depend on pgx.
var (
	ErrNotFound  = errors.New("repository: not found")
	ErrDuplicate = errors.New("repository: duplicate key")
)
