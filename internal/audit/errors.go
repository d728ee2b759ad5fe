package audit

import "errors"

// Domain errors for audit operations.
var (
	ErrNotFound  = errors.New("audit entry not found")
	ErrDuplicate = errors.New("audit entry already exists")
)
