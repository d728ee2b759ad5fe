package actions

import (
	"errors"
	"fmt"
)

// Domain errors for action execution.
var (
	ErrExecution     = errors.New("action execution failed")
	ErrUnknownAction = errors.New("no handler registered for action type")
	ErrMissingCaseID = errors.New("action requires a case id")
	// ErrTaskTitleRequired indicates a task action without the title
	// parameter needed to locate the task.
	ErrTaskTitleRequired = errors.New("task action requires a title parameter")
)

func executionError(actionType Type, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExecution, actionType, err)
}
