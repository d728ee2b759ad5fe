package channels

import "errors"

// Domain errors for channel operations.
var (
	ErrNotConnected  = errors.New("channel not connected")
	ErrUnknownSource = errors.New("unknown source type in dataset record")
)
