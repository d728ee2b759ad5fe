package cases

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fieldgate/loa-worker/pkg/query"
	"github.com/fieldgate/loa-worker/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a case repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "cases"),
	}
}

const caseColumns = "id, client_name, title, case_type, status, required_fields, received_fields, tags, notes, metadata, assigned_to, created_at, updated_at, completed_at"

func (r *repo) Create(ctx context.Context, c Case) (*Case, error) {
	requiredFields, receivedFields, tags, metadata, err := encodeCase(&c)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO cases(%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s`, caseColumns, caseColumns)

	args := []any{
		c.ID,
		c.ClientName,
		c.Title,
		c.CaseType,
		c.Status,
		requiredFields,
		receivedFields,
		tags,
		c.Notes,
		metadata,
		c.AssignedTo,
		c.CreatedAt,
		c.UpdatedAt,
		c.CompletedAt,
	}

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		return repository.QueryOne(ctx, tx, q, args, scanCase)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("case created", "id", created.ID, "client", created.ClientName)
	return &created, nil
}

func (r *repo) Get(ctx context.Context, id string) (*Case, error) {
	q, args := query.NewBuilder(caseProjection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Update(ctx context.Context, c Case) (*Case, error) {
	requiredFields, receivedFields, tags, metadata, err := encodeCase(&c)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE cases
		SET client_name = $2,
			title = $3,
			case_type = $4,
			status = $5,
			required_fields = $6,
			received_fields = $7,
			tags = $8,
			notes = $9,
			metadata = $10,
			assigned_to = $11,
			updated_at = $12,
			completed_at = $13
		WHERE id = $1
		RETURNING %s`, caseColumns)

	args := []any{
		c.ID,
		c.ClientName,
		c.Title,
		c.CaseType,
		c.Status,
		requiredFields,
		receivedFields,
		tags,
		c.Notes,
		metadata,
		c.AssignedTo,
		c.UpdatedAt,
		c.CompletedAt,
	}

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		return repository.QueryOne(ctx, tx, q, args, scanCase)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &updated, nil
}

func (r *repo) FindByClientAndTitle(ctx context.Context, clientName, title string) (*Case, error) {
	qb := query.
		NewBuilder(caseProjection, caseDefaultSort).
		WhereEquals("ClientName", clientName).
		WhereIn("Status", []any{StatusOpen, StatusInProgress, StatusAwaitingInfo})

	if title != "" {
		qb.WhereContains("Title", &title)
	}

	q, args := qb.BuildSingleOrNull()

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, filters Filters, limit int) ([]Case, error) {
	qb := query.NewBuilder(caseProjection, caseDefaultSort)
	filters.Apply(qb)

	var (
		q    string
		args []any
	)

	if limit > 0 {
		q, args = qb.BuildLimit(limit)
	} else {
		q, args = qb.Build()
	}

	results, err := repository.QueryMany(ctx, r.db, q, args, scanCase)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	return results, nil
}

const taskColumns = "id, case_id, title, description, status, due_date, assigned_to, created_at, updated_at, completed_at"

func (r *repo) CreateTask(ctx context.Context, t Task) (*Task, error) {
	q := fmt.Sprintf(`
		INSERT INTO tasks(%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, taskColumns, taskColumns)

	args := []any{
		t.ID,
		t.CaseID,
		t.Title,
		t.Description,
		t.Status,
		t.DueDate,
		t.AssignedTo,
		t.CreatedAt,
		t.UpdatedAt,
		t.CompletedAt,
	}

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Task, error) {
		return repository.QueryOne(ctx, tx, q, args, scanTask)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrTaskNotFound, ErrDuplicate)
	}

	r.logger.Info("task created", "id", created.ID, "case_id", created.CaseID)
	return &created, nil
}

func (r *repo) UpdateTask(ctx context.Context, t Task) (*Task, error) {
	q := fmt.Sprintf(`
		UPDATE tasks
		SET case_id = $2,
			title = $3,
			description = $4,
			status = $5,
			due_date = $6,
			assigned_to = $7,
			updated_at = $8,
			completed_at = $9
		WHERE id = $1
		RETURNING %s`, taskColumns)

	args := []any{
		t.ID,
		t.CaseID,
		t.Title,
		t.Description,
		t.Status,
		t.DueDate,
		t.AssignedTo,
		t.UpdatedAt,
		t.CompletedAt,
	}

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Task, error) {
		return repository.QueryOne(ctx, tx, q, args, scanTask)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrTaskNotFound, ErrDuplicate)
	}

	return &updated, nil
}

func (r *repo) FindTaskByTitle(ctx context.Context, title, caseID string) (*Task, error) {
	qb := query.
		NewBuilder(taskProjection, taskDefaultSort).
		WhereEquals("Title", title).
		WhereIn("Status", []any{StatusOpen, StatusInProgress, StatusAwaitingInfo})

	if caseID != "" {
		qb.WhereEquals("CaseID", caseID)
	}

	q, args := qb.BuildSingleOrNull()

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTask)
	if err != nil {
		return nil, repository.MapError(err, ErrTaskNotFound, ErrDuplicate)
	}
	return &t, nil
}
