package actions

import (
	"context"
	"log/slog"
)

// Handler executes a single action against persisted state.
// Implementations are stateless beyond their injected dependencies
// and must write an audit entry for every execution attempt.
type Handler interface {
	Execute(ctx context.Context, action *Action) error
}

// Router dispatches actions to their owning handlers through a
// closed type-to-handler mapping.
type Router struct {
	handlers map[Type]Handler
	logger   *slog.Logger
}

// NewRouter builds the closed dispatch table over the three handler
// families. IGNORE is handled by the router itself as a no-op.
func NewRouter(caseHandler, taskHandler, followupHandler Handler, logger *slog.Logger) *Router {
	return &Router{
		handlers: map[Type]Handler{
			TypeCreateCase:         caseHandler,
			TypeUpdateCase:         caseHandler,
			TypeCompleteCase:       caseHandler,
			TypeCancelCase:         caseHandler,
			TypeCreateTask:         taskHandler,
			TypeCompleteTask:       taskHandler,
			TypeDraftFollowupEmail: followupHandler,
			TypeInitiateLoAChase:   followupHandler,
		},
		logger: logger.With("system", "actions"),
	}
}

// Route dispatches a single action. IGNORE succeeds without side
// effects; an unregistered type is an execution error.
func (r *Router) Route(ctx context.Context, action *Action) error {
	if action.Type == TypeIgnore {
		action.markExecuted(true, "")
		return nil
	}

	handler, ok := r.handlers[action.Type]
	if !ok {
		return executionError(action.Type, ErrUnknownAction)
	}

	return handler.Execute(ctx, action)
}

// RouteAll dispatches actions in sequence, capturing per-action
// failures without aborting the remainder. It returns a mapping of
// action id to success.
func (r *Router) RouteAll(ctx context.Context, actions []*Action) map[string]bool {
	results := make(map[string]bool, len(actions))

	for _, action := range actions {
		if err := r.Route(ctx, action); err != nil {
			r.logger.Error(
				"action routing failed",
				"action_id", action.ID,
				"action_type", action.Type,
				"error", err,
			)
			results[action.ID] = false
			continue
		}
		results[action.ID] = true
	}

	return results
}
