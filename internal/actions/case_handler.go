package actions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fieldgate/loa-worker/internal/audit"
	"github.com/fieldgate/loa-worker/internal/cases"
)

// CaseHandler executes case lifecycle actions: create, update,
// complete, and cancel.
type CaseHandler struct {
	cases    cases.System
	recorder recorder
	logger   *slog.Logger
}

// NewCaseHandler creates a case action handler.
func NewCaseHandler(caseSystem cases.System, auditSystem audit.System, logger *slog.Logger) *CaseHandler {
	logger = logger.With("handler", "case")
	return &CaseHandler{
		cases:    caseSystem,
		recorder: recorder{audit: auditSystem, logger: logger},
		logger:   logger,
	}
}

func (h *CaseHandler) Execute(ctx context.Context, action *Action) error {
	var err error

	switch action.Type {
	case TypeCreateCase:
		err = h.create(ctx, action)
	case TypeUpdateCase:
		err = h.update(ctx, action)
	case TypeCompleteCase:
		err = h.complete(ctx, action)
	case TypeCancelCase:
		err = h.cancel(ctx, action)
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

func (h *CaseHandler) create(ctx context.Context, action *Action) error {
	clientName := action.stringParam("client_name")
	if clientName == "" {
		clientName = "Unknown Client"
	}

	title := action.stringParam("title")
	if title == "" {
		title = fmt.Sprintf("Case for %s", clientName)
	}

	caseType := cases.TypeLoA
	if t := action.stringParam("case_type"); t != "" {
		caseType = cases.Type(t)
	}

	requiredFields := action.stringSliceParam("required_fields")
	if requiredFields == nil && caseType == cases.TypeLoA {
		requiredFields = append([]string{}, cases.DefaultLoARequiredFields...)
	}

	now := time.Now().UTC()
	c := cases.Case{
		ID:             cases.NewCaseID(now, clientName),
		ClientName:     clientName,
		Title:          title,
		CaseType:       caseType,
		Status:         cases.StatusOpen,
		RequiredFields: requiredFields,
		ReceivedFields: map[string]cases.FieldValue{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := h.cases.Create(ctx, c)
	if err != nil {
		return err
	}

	action.CaseID = created.ID

	h.logger.Info("case created", "case_id", created.ID, "client", created.ClientName)
	return h.recorder.record(ctx, action, created.ID, map[string]any{}, caseState(created))
}

func (h *CaseHandler) update(ctx context.Context, action *Action) error {
	if action.CaseID == "" {
		return ErrMissingCaseID
	}

	current, err := h.cases.Get(ctx, action.CaseID)
	if err != nil {
		return err
	}
	before := caseState(current)

	updated := *current
	now := time.Now().UTC()

	for name, value := range action.mapParam("field_updates") {
		updated = cases.AddFieldValue(updated, name, fmt.Sprint(value), action.MessageID, 1.0, now)
	}

	if notes := action.stringParam("notes"); notes != "" {
		if updated.Notes != "" {
			updated.Notes += "\n"
		}
		updated.Notes += notes
		updated.UpdatedAt = now
	}

	if next, ok := cases.ShouldAutoTransition(&updated); ok {
		if updated, err = cases.Transition(updated, next, now); err != nil {
			return err
		}
	}

	persisted, err := h.cases.Update(ctx, updated)
	if err != nil {
		return err
	}

	h.logger.Info(
		"case updated",
		"case_id", persisted.ID,
		"status", persisted.Status,
		"completion", persisted.CompletionPercentage(),
	)
	return h.recorder.record(ctx, action, persisted.ID, before, caseState(persisted))
}

// complete drives a case to COMPLETE, hopping through IN_PROGRESS
// first when the transition table forbids the direct move.
func (h *CaseHandler) complete(ctx context.Context, action *Action) error {
	if action.CaseID == "" {
		return ErrMissingCaseID
	}

	current, err := h.cases.Get(ctx, action.CaseID)
	if err != nil {
		return err
	}
	before := caseState(current)

	updated := *current
	now := time.Now().UTC()

	if updated.Status == cases.StatusOpen || updated.Status == cases.StatusAwaitingInfo {
		if updated, err = cases.Transition(updated, cases.StatusInProgress, now); err != nil {
			return err
		}
	}

	if updated, err = cases.Transition(updated, cases.StatusComplete, now); err != nil {
		return err
	}

	persisted, err := h.cases.Update(ctx, updated)
	if err != nil {
		return err
	}

	h.logger.Info("case completed", "case_id", persisted.ID)
	return h.recorder.record(ctx, action, persisted.ID, before, caseState(persisted))
}

func (h *CaseHandler) cancel(ctx context.Context, action *Action) error {
	if action.CaseID == "" {
		return ErrMissingCaseID
	}

	current, err := h.cases.Get(ctx, action.CaseID)
	if err != nil {
		return err
	}
	before := caseState(current)

	updated, err := cases.Transition(*current, cases.StatusCancelled, time.Now().UTC())
	if err != nil {
		return err
	}

	persisted, err := h.cases.Update(ctx, updated)
	if err != nil {
		return err
	}

	h.logger.Info("case cancelled", "case_id", persisted.ID)
	return h.recorder.record(ctx, action, persisted.ID, before, caseState(persisted))
}
