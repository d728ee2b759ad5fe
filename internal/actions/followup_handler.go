package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fieldgate/loa-worker/internal/audit"
	"github.com/fieldgate/loa-worker/internal/cases"
	"github.com/fieldgate/loa-worker/pkg/storage"
)

// EmailDrafter generates follow-up email text for a case with
// outstanding fields. A nil drafter falls back to a deterministic
// template.
type EmailDrafter interface {
	GenerateFollowupEmail(ctx context.Context, c *cases.Case, missingFields []string) (string, error)
}

// FollowupHandler executes follow-up actions: drafting chase emails
// and initiating LoA chases.
type FollowupHandler struct {
	cases    cases.System
	drafter  EmailDrafter
	outbox   storage.System
	recorder recorder
	logger   *slog.Logger
}

// NewFollowupHandler creates a follow-up action handler. Both drafter
// and outbox may be nil: drafting then uses the template fallback and
// drafted emails are kept on the action parameters only.
func NewFollowupHandler(
	caseSystem cases.System,
	auditSystem audit.System,
	drafter EmailDrafter,
	outbox storage.System,
	logger *slog.Logger,
) *FollowupHandler {
	logger = logger.With("handler", "followup")
	return &FollowupHandler{
		cases:    caseSystem,
		drafter:  drafter,
		outbox:   outbox,
		recorder: recorder{audit: auditSystem, logger: logger},
		logger:   logger,
	}
}

func (h *FollowupHandler) Execute(ctx context.Context, action *Action) error {
	var err error

	switch action.Type {
	case TypeDraftFollowupEmail:
		err = h.draft(ctx, action)
	case TypeInitiateLoAChase:
		err = h.chase(ctx, action)
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

func (h *FollowupHandler) draft(ctx context.Context, action *Action) error {
	if action.CaseID == "" {
		return ErrMissingCaseID
	}

	current, err := h.cases.Get(ctx, action.CaseID)
	if err != nil {
		return err
	}
	before := caseState(current)

	missing := action.stringSliceParam("missing_fields")
	if len(missing) == 0 {
		missing = current.MissingFields()
	}

	if len(missing) == 0 {
		h.logger.Info("no missing fields, skipping email draft", "case_id", current.ID)
		return h.recorder.record(ctx, action, current.ID, before, map[string]any{
			"status": "already_satisfied",
		})
	}

	var body string
	if h.drafter != nil {
		if body, err = h.drafter.GenerateFollowupEmail(ctx, current, missing); err != nil {
			h.logger.Warn("email generation failed, using template", "case_id", current.ID, "error", err)
			body = templateEmail(current, missing)
		}
	} else {
		body = templateEmail(current, missing)
	}

	action.Parameters["email_body"] = body
	action.Parameters["missing_fields"] = missing

	h.store(ctx, action, body)

	h.logger.Info("follow-up email drafted", "case_id", current.ID, "missing", len(missing))
	return h.recorder.record(ctx, action, current.ID, before, map[string]any{
		"email_drafted":  true,
		"missing_fields": missing,
	})
}

func (h *FollowupHandler) chase(ctx context.Context, action *Action) error {
	if action.CaseID == "" {
		return ErrMissingCaseID
	}

	current, err := h.cases.Get(ctx, action.CaseID)
	if err != nil {
		return err
	}

	summary := map[string]any{
		"client_name":    current.ClientName,
		"case_id":        current.ID,
		"case_title":     current.Title,
		"missing_fields": current.MissingFields(),
		"initiated_at":   time.Now().UTC().Format(time.RFC3339),
	}
	action.Parameters["chase_summary"] = summary

	h.logger.Info("chase initiated", "case_id", current.ID, "client", current.ClientName)
	return h.recorder.record(ctx, action, current.ID, caseState(current), summary)
}

// store uploads the drafted email to the outbox container.
// Upload failures are logged; the draft remains on the action.
func (h *FollowupHandler) store(ctx context.Context, action *Action, body string) {
	if h.outbox == nil {
		return
	}

	key := fmt.Sprintf("followups/%s/%s.txt", action.CaseID, action.ID)
	if err := h.outbox.Upload(ctx, key, strings.NewReader(body), "text/plain"); err != nil {
		h.logger.Warn("outbox upload failed", "key", key, "error", err)
		return
	}

	action.Parameters["outbox_key"] = key
}

var fieldLabels = map[string]string{
	"date_of_birth":             "Date of Birth",
	"national_insurance_number": "National Insurance Number",
	"plan_number":               "Plan Number",
	"provider_name":             "Provider Name",
}

func fieldLabel(name string) string {
	if label, ok := fieldLabels[name]; ok {
		return label
	}
	return strings.ReplaceAll(name, "_", " ")
}

func templateEmail(c *cases.Case, missing []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dear %s,\n\n", c.ClientName)
	b.WriteString("We are processing your Letter of Authority request and need the following information to proceed:\n\n")

	for _, field := range missing {
		fmt.Fprintf(&b, "- %s\n", fieldLabel(field))
	}

	b.WriteString("\nPlease reply with these details at your earliest convenience.\n\nKind regards,\nThe Operations Team\n")
	return b.String()
}
