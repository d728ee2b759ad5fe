package actions

import (
	"context"
	"log/slog"
	"time"

	"github.com/fieldgate/loa-worker/internal/audit"
	"github.com/fieldgate/loa-worker/internal/cases"
)

// TaskHandler executes task actions: create and complete.
type TaskHandler struct {
	cases    cases.System
	recorder recorder
	logger   *slog.Logger
}

// NewTaskHandler creates a task action handler.
func NewTaskHandler(caseSystem cases.System, auditSystem audit.System, logger *slog.Logger) *TaskHandler {
	logger = logger.With("handler", "task")
	return &TaskHandler{
		cases:    caseSystem,
		recorder: recorder{audit: auditSystem, logger: logger},
		logger:   logger,
	}
}

func (h *TaskHandler) Execute(ctx context.Context, action *Action) error {
	var err error

	switch action.Type {
	case TypeCreateTask:
		err = h.create(ctx, action)
	case TypeCompleteTask:
		err = h.complete(ctx, action)
	default:
		err = ErrUnknownAction
	}

	if err != nil {
		h.recorder.recordFailure(ctx, action, action.CaseID, err)
		action.markExecuted(false, err.Error())
		return executionError(action.Type, err)
	}

	action.markExecuted(true, "")
	return nil
}

func (h *TaskHandler) create(ctx context.Context, action *Action) error {
	title := action.stringParam("title")
	if title == "" {
		title = "Follow up"
	}

	now := time.Now().UTC()
	t := cases.Task{
		ID:          cases.NewTaskID(now),
		CaseID:      action.CaseID,
		Title:       title,
		Description: action.stringParam("description"),
		Status:      cases.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if due := action.stringParam("due_date"); due != "" {
		if parsed, err := time.Parse(time.RFC3339, due); err == nil {
			t.DueDate = &parsed
		}
	}

	created, err := h.cases.CreateTask(ctx, t)
	if err != nil {
		return err
	}

	h.logger.Info("task created", "task_id", created.ID, "case_id", created.CaseID)
	return h.recorder.record(ctx, action, action.CaseID, map[string]any{}, taskState(created))
}

func (h *TaskHandler) complete(ctx context.Context, action *Action) error {
	title := action.stringParam("title")
	if title == "" {
		return ErrTaskTitleRequired
	}

	current, err := h.cases.FindTaskByTitle(ctx, title, action.CaseID)
	if err != nil {
		return err
	}
	before := taskState(current)

	now := time.Now().UTC()
	updated := *current
	updated.Status = cases.StatusComplete
	updated.UpdatedAt = now
	updated.CompletedAt = &now

	persisted, err := h.cases.UpdateTask(ctx, updated)
	if err != nil {
		return err
	}

	h.logger.Info("task completed", "task_id", persisted.ID, "case_id", persisted.CaseID)
	return h.recorder.record(ctx, action, action.CaseID, before, taskState(persisted))
}
