package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fieldgate/loa-worker/pkg/query"
	"github.com/fieldgate/loa-worker/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an audit repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "audit"),
	}
}

const entryColumns = "id, ts, case_id, action_type, before_state, after_state, triggered_by, success, error_message, metadata"

func (r *repo) Log(ctx context.Context, e Entry) (*Entry, error) {
	if e.CaseID == "" {
		e.CaseID = UnknownCaseID
	}
	if e.BeforeState == nil {
		e.BeforeState = map[string]any{}
	}
	if e.AfterState == nil {
		e.AfterState = map[string]any{}
	}

	beforeState, err := json.Marshal(e.BeforeState)
	if err != nil {
		return nil, fmt.Errorf("encode before_state: %w", err)
	}
	afterState, err := json.Marshal(e.AfterState)
	if err != nil {
		return nil, fmt.Errorf("encode after_state: %w", err)
	}

	var metadata []byte
	if e.Metadata != nil {
		if metadata, err = json.Marshal(e.Metadata); err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
	}

	q := fmt.Sprintf(`
		INSERT INTO audit_logs(%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, entryColumns, entryColumns)

	args := []any{
		e.ID,
		e.Timestamp,
		e.CaseID,
		e.ActionType,
		beforeState,
		afterState,
		e.TriggeredBy,
		e.Success,
		e.ErrorMessage,
		metadata,
	}

	logged, err := repository.QueryOne(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Debug(
		"audit entry recorded",
		"case_id", logged.CaseID,
		"action_type", logged.ActionType,
		"success", logged.Success,
	)
	return &logged, nil
}

func (r *repo) TrailForCase(ctx context.Context, caseID string) ([]Entry, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("CaseID", caseID).
		Build()

	results, err := repository.QueryMany(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	return results, nil
}

func (r *repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		BuildLimit(limit)

	results, err := repository.QueryMany(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query recent audit entries: %w", err)
	}
	return results, nil
}

func (r *repo) Failed(ctx context.Context, limit int) ([]Entry, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("Success", false).
		BuildLimit(limit)

	results, err := repository.QueryMany(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query failed audit entries: %w", err)
	}
	return results, nil
}
