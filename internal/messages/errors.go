package messages

import "errors"

// Domain errors for message handling.
var (
	ErrEmptyContent  = errors.New("message content is empty")
	ErrUnknownSource = errors.New("unknown message source type")
)
