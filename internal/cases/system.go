package cases

import "context"

// System defines the public contract for case domain operations.
// Get returns ErrNotFound when no case exists; Update fails with
// ErrNotFound when the target has never been persisted.
type System interface {
	Create(ctx context.Context, c Case) (*Case, error)
	Get(ctx context.Context, id string) (*Case, error)
	Update(ctx context.Context, c Case) (*Case, error)

	// FindByClientAndTitle returns the most recently updated
	// non-terminal case for the client, optionally narrowed by a
	// title fragment. Returns ErrNotFound when no case matches.
	FindByClientAndTitle(ctx context.Context, clientName, title string) (*Case, error)

	List(ctx context.Context, filters Filters, limit int) ([]Case, error)

	CreateTask(ctx context.Context, t Task) (*Task, error)
	UpdateTask(ctx context.Context, t Task) (*Task, error)

	// FindTaskByTitle returns the most recent non-complete task with
	// the given title, scoped to a case when caseID is non-empty.
	// Returns ErrTaskNotFound when no task matches.
	FindTaskByTitle(ctx context.Context, title, caseID string) (*Task, error)
}
