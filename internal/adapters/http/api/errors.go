package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrServe        = errors.New("http serve failed")
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// Wrap annotates err with the operation that produced it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// NewKind returns an operation-annotated sentinel error.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind annotates err with both the operation and a sentinel kind.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
