package repository

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateID    = errors.New("duplicate id")
)

// DuplicateKeyError carries the id that collided. It matches ErrDuplicateID
// under errors.Is.
type DuplicateKeyError struct {
	ID string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateID, e.ID)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateID }
