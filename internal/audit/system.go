package audit

import "context"

// System defines the public contract for the audit trail.
// Log is the only write operation; entries are append-only.
type System interface {
	Log(ctx context.Context, e Entry) (*Entry, error)

	// TrailForCase returns all entries for a case, most recent first.
	TrailForCase(ctx context.Context, caseID string) ([]Entry, error)
	// Recent returns the latest entries across all cases.
	Recent(ctx context.Context, limit int) ([]Entry, error)
	// Failed returns the latest failed entries across all cases.
	Failed(ctx context.Context, limit int) ([]Entry, error)
}
