package actions

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/fieldgate/loa-worker/internal/audit"
	"github.com/fieldgate/loa-worker/internal/cases"
)

// recorder writes audit entries for action executions. It is shared
// by all handlers so every execution attempt, successful or failed,
// produces exactly one entry.
type recorder struct {
	audit  audit.System
	logger *slog.Logger
}

func (r *recorder) record(ctx context.Context, action *Action, caseID string, before, after map[string]any) error {
	entry := audit.NewEntry(caseID, string(action.Type), action.MessageID)
	entry.BeforeState = before
	entry.AfterState = after
	entry.Success = true

	if _, err := r.audit.Log(ctx, entry); err != nil {
		return err
	}
	return nil
}

// recordFailure writes a failed entry with empty state snapshots.
// Audit write errors are logged rather than propagated so the
// original execution error is preserved.
func (r *recorder) recordFailure(ctx context.Context, action *Action, caseID string, cause error) {
	entry := audit.NewEntry(caseID, string(action.Type), action.MessageID)
	entry.Success = false
	entry.ErrorMessage = cause.Error()

	if _, err := r.audit.Log(ctx, entry); err != nil {
		r.logger.Error(
			"failed audit entry could not be recorded",
			"action_id", action.ID,
			"action_type", action.Type,
			"error", err,
		)
	}
}

// caseState produces an opaque snapshot of a case for audit entries.
func caseState(c *cases.Case) map[string]any {
	if c == nil {
		return map[string]any{}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return map[string]any{}
	}

	var state map[string]any
	if err := json.Unmarshal(data, &state); err != nil {
		return map[string]any{}
	}
	return state
}

// taskState produces an opaque snapshot of a task for audit entries.
func taskState(t *cases.Task) map[string]any {
	if t == nil {
		return map[string]any{}
	}

	data, err := json.Marshal(t)
	if err != nil {
		return map[string]any{}
	}

	var state map[string]any
	if err := json.Unmarshal(data, &state); err != nil {
		return map[string]any{}
	}
	return state
}
