package state

import (
	"errors"
	"fmt"
)

// Sentinel errors for the state registry.
var (
	ErrStateNotFound = errors.New("state not found")
	ErrAlreadyExists = errors.New("state already registered")
	ErrEmptyName     = errors.New("state name is empty")
	ErrNilMutation   = errors.New("state mutation is nil")
)

// NotFoundError reports a state name that is not registered. It matches
// ErrStateNotFound with errors.Is.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrStateNotFound, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrStateNotFound
}
