package cases

import (
	"errors"
	"fmt"
)

// Domain errors for case operations.
var (
	ErrNotFound          = errors.New("case not found")
	ErrDuplicate         = errors.New("case already exists")
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid state transition")
)

func invalidTransition(from, to Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
