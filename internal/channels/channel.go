// Package channels implements message ingestion adapters. Each
// channel exposes a connect/disconnect lifecycle and a lazy,
// restartable sequence of messages.
package channels

import (
	"context"
	"iter"

	"github.com/fieldgate/loa-worker/internal/messages"
)

// FetchOptions bounds and filters a message fetch.
type FetchOptions struct {
	// Limit caps the number of yielded messages; zero means unbounded.
	Limit int
	// Since is an opaque cursor; messages up to and including the
	// matching one are skipped. Interpretation is channel-specific.
	Since string
	// Day restricts the fetch to a single dataset day; zero means
	// all days. Only honored by channels with day-structured sources.
	Day int
}

// Channel is a message source. Messages may be called repeatedly
// after a single Connect; each call restarts the sequence.
type Channel interface {
	Connect(ctx context.Context) error
	Disconnect() error

	// Messages returns a lazy sequence of messages with per-message
	// errors. Iteration stops early when the consumer breaks.
	Messages(opts FetchOptions) iter.Seq2[*messages.Message, error]
}
