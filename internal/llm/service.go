package llm

import (
	"context"

	"github.com/fieldgate/loa-worker/internal/actions"
	"github.com/fieldgate/loa-worker/internal/cases"
	"github.com/fieldgate/loa-worker/internal/messages"
)

// Service is the language-model boundary consumed by the pipeline.
// Every method is fallible; callers must not depend on any behavior
// beyond the documented contracts.
type Service interface {
	// ClassifyMessage categorizes a message. Implementations degrade
	// to a heuristic classification rather than failing when the
	// model is unreachable or returns unparseable output.
	ClassifyMessage(ctx context.Context, msg *messages.Message) (Classification, error)

	// ExtractEntities pulls structured facts from a message, with
	// field names canonicalized.
	ExtractEntities(ctx context.Context, msg *messages.Message, classification Classification) (ExtractedEntities, error)

	// DetermineAction decides the single action for a message given
	// its classification, entities, and any matched case.
	DetermineAction(ctx context.Context, msg *messages.Message, classification Classification, entities ExtractedEntities, existing *cases.Case) (*actions.Action, error)

	// GenerateFollowupEmail drafts a chase email for a case's
	// missing fields.
	GenerateFollowupEmail(ctx context.Context, c *cases.Case, missingFields []string) (string, error)

	// HealthCheck reports whether the backing model is reachable.
	HealthCheck(ctx context.Context) bool
}
