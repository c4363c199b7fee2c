package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrInvalidLimit = errors.New("invalid limit")
	ErrClosed       = errors.New("store closed")
)
