package actions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldgate/loa-worker/internal/actions"
	"github.com/fieldgate/loa-worker/internal/cases"
)

func TestCaseHandlerCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an loa case with defaults", func(t *testing.T) {
		caseSystem := newMemoryCases()
		auditSystem := &memoryAudit{}
		handler := actions.NewCaseHandler(caseSystem, auditSystem, discardLogger())

		action := actions.NewAction(actions.TypeCreateCase, "msg_001", nil)
		if err := handler.Execute(ctx, action); err != nil {
			t.Fatalf("Execute error: %v", err)
		}

		assertExecuted(t, action, true)
		if action.CaseID == "" {
			t.Fatal("CaseID not backfilled onto action")
		}

		created := caseSystem.cases[action.CaseID]
		if created.ClientName != "Unknown Client" {
			t.Errorf("ClientName = %q, want Unknown Client", created.ClientName)
		}
		if created.Title != "Case for Unknown Client" {
			t.Errorf("Title = %q, want Case for Unknown Client", created.Title)
		}
		if created.CaseType != cases.TypeLoA || created.Status != cases.StatusOpen {
			t.Errorf("case = %s/%s, want loa/OPEN", created.CaseType, created.Status)
		}
		if len(created.RequiredFields) != len(cases.DefaultLoARequiredFields) {
			t.Errorf("RequiredFields = %v, want defaults", created.RequiredFields)
		}

		entry := auditSystem.lastEntry(t)
		if entry.CaseID != created.ID || !entry.Success {
			t.Errorf("audit entry = %+v, want success for %s", entry, created.ID)
		}
		if len(entry.BeforeState) != 0 {
			t.Errorf("BeforeState = %v, want empty for create", entry.BeforeState)
		}
	})

	t.Run("general case gets no required fields", func(t *testing.T) {
		caseSystem := newMemoryCases()
		handler := actions.NewCaseHandler(caseSystem, &memoryAudit{}, discardLogger())

		action := actions.NewAction(actions.TypeCreateCase, "msg_001", map[string]any{
			"client_name": "Tom Baker",
			"case_type":   "general",
		})
		if err := handler.Execute(ctx, action); err != nil {
			t.Fatalf("Execute error: %v", err)
		}

		created := caseSystem.cases[action.CaseID]
		if created.CaseType != cases.TypeGeneral {
			t.Errorf("CaseType = %s, want general", created.CaseType)
		}
		if len(created.RequiredFields) != 0 {
			t.Errorf("RequiredFields = %v, want none", created.RequiredFields)
		}
	})
}

func TestCaseHandlerUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies field updates and auto-transitions", func(t *testing.T) {
		caseSystem := newMemoryCases()
		auditSystem := &memoryAudit{}
		handler := actions.NewCaseHandler(caseSystem, auditSystem, discardLogger())
		seeded := seedCase(caseSystem, cases.StatusInProgress, "date_of_birth")

		action := actions.NewAction(actions.TypeUpdateCase, "msg_001", map[string]any{
			"field_updates": map[string]any{"plan_number": "PL-123"},
		})
		action.CaseID = seeded.ID

		if err := handler.Execute(ctx, action); err != nil {
			t.Fatalf("Execute error: %v", err)
		}

		stored := caseSystem.cases[seeded.ID]
		fv := stored.ReceivedFields["plan_number"]
		if fv.Value != "PL-123" || fv.SourceID != "msg_001" || fv.Confidence != 1.0 {
			t.Errorf("FieldValue = %+v, want PL-123/msg_001/1.0", fv)
		}
		if stored.Status != cases.StatusAwaitingInfo {
			t.Errorf("Status = %s, want AWAITING_INFO", stored.Status)
		}

		entry := auditSystem.lastEntry(t)
		if !entry.Success || len(entry.BeforeState) == 0 || len(entry.AfterState) == 0 {
			t.Errorf("audit entry = %+v, want success with both snapshots", entry)
		}
	})

	t.Run("final field completes the case", func(t *testing.T) {
		caseSystem := newMemoryCases()
		handler := actions.NewCaseHandler(caseSystem, &memoryAudit{}, discardLogger())
		seeded := seedCase(caseSystem, cases.StatusAwaitingInfo,
			"date_of_birth", "national_insurance_number", "plan_number")

		action := actions.NewAction(actions.TypeUpdateCase, "msg_001", map[string]any{
			"field_updates": map[string]any{"provider_name": "ABC Platform"},
		})
		action.CaseID = seeded.ID

		if err := handler.Execute(ctx, action); err != nil {
			t.Fatalf("Execute error: %v", err)
		}

		stored := caseSystem.cases[seeded.ID]
		if stored.Status != cases.StatusComplete || stored.CompletedAt == nil {
			t.Errorf("case = %s/%v, want COMPLETE with timestamp", stored.Status, stored.CompletedAt)
		}
	})

	t.Run("appends notes", func(t *testing.T) {
		caseSystem := newMemoryCases()
		handler := actions.NewCaseHandler(caseSystem, &memoryAudit{}, discardLogger())
		seeded := seedCase(caseSystem, cases.StatusInProgress)

		action := actions.NewAction(actions.TypeUpdateCase, "msg_001", map[string]any{
			"notes": "provider confirmed receipt",
		})
		action.CaseID = seeded.ID

		if err := handler.Execute(ctx, action); err != nil {
			t.Fatalf("Execute error: %v", err)
		}

		if got := caseSystem.cases[seeded.ID].Notes; got != "provider confirmed receipt" {
			t.Errorf("Notes = %q, want appended note", got)
		}
	})

	t.Run("missing case id fails with audit entry", func(t *testing.T) {
		auditSystem := &memoryAudit{}
		handler := actions.NewCaseHandler(newMemoryCases(), auditSystem, discardLogger())

		action := actions.NewAction(actions.TypeUpdateCase, "msg_001", nil)
		err := handler.Execute(ctx, action)
		if !errors.Is(err, actions.ErrMissingCaseID) {
			t.Fatalf("error = %v, want ErrMissingCaseID", err)
		}

		assertExecuted(t, action, false)

		entry := auditSystem.lastEntry(t)
		if entry.Success || entry.ErrorMessage == "" {
			t.Errorf("audit entry = %+v, want recorded failure", entry)
		}
	})

	t.Run("unknown case fails", func(t *testing.T) {
		handler := actions.NewCaseHandler(newMemoryCases(), &memoryAudit{}, discardLogger())

		action := actions.NewAction(actions.TypeUpdateCase, "msg_001", nil)
		action.CaseID = "case_missing"

		err := handler.Execute(ctx, action)
		if !errors.Is(err, cases.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestCaseHandlerComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("completes from in_progress", func(t *testing.T) {
		caseSystem := newMemoryCases()
		handler := actions.NewCaseHandler(caseSystem, &memoryAudit{}, discardLogger())
		seeded := seedCase(caseSystem, cases.StatusInProgress)

		action := actions.NewAction(actions.TypeCompleteCase, "msg_001", nil)
		action.CaseID = seeded.ID

		if err := handler.Execute(ctx, action); err != nil {
			t.Fatalf("Execute error: %v", err)
		}

		if got := caseSystem.cases[seeded.ID].Status; got != cases.StatusComplete {
			t.Errorf("Status = %s, want COMPLETE", got)
		}
	})

	t.Run("hops through in_progress from open", func(t *testing.T) {
		caseSystem := newMemoryCases()
		handler := actions.NewCaseHandler(caseSystem, &memoryAudit{}, discardLogger())
		seeded := seedCase(caseSystem, cases.StatusOpen)

		action := actions.NewAction(actions.TypeCompleteCase, "msg_001", nil)
		action.CaseID = seeded.ID

		if err := handler.Execute(ctx, action); err != nil {
			t.Fatalf("Execute error: %v", err)
		}

		if got := caseSystem.cases[seeded.ID].Status; got != cases.StatusComplete {
			t.Errorf("Status = %s, want COMPLETE", got)
		}
	})

	t.Run("hops through in_progress from awaiting_info", func(t *testing.T) {
		caseSystem := newMemoryCases()
		handler := actions.NewCaseHandler(caseSystem, &memoryAudit{}, discardLogger())
		seeded := seedCase(caseSystem, cases.StatusAwaitingInfo)

		action := actions.NewAction(actions.TypeCompleteCase, "msg_001", nil)
		action.CaseID = seeded.ID

		if err := handler.Execute(ctx, action); err != nil {
			t.Fatalf("Execute error: %v", err)
		}

		if got := caseSystem.cases[seeded.ID].Status; got != cases.StatusComplete {
			t.Errorf("Status = %s, want COMPLETE", got)
		}
	})

	t.Run("cancelled case cannot complete", func(t *testing.T) {
		caseSystem := newMemoryCases()
		handler := actions.NewCaseHandler(caseSystem, &memoryAudit{}, discardLogger())
		seeded := seedCase(caseSystem, cases.StatusCancelled)

		action := actions.NewAction(actions.TypeCompleteCase, "msg_001", nil)
		action.CaseID = seeded.ID

		err := handler.Execute(ctx, action)
		if !errors.Is(err, cases.ErrInvalidTransition) {
			t.Errorf("error = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestCaseHandlerCancel(t *testing.T) {
	ctx := context.Background()

	caseSystem := newMemoryCases()
	handler := actions.NewCaseHandler(caseSystem, &memoryAudit{}, discardLogger())
	seeded := seedCase(caseSystem, cases.StatusOpen)

	action := actions.NewAction(actions.TypeCancelCase, "msg_001", nil)
	action.CaseID = seeded.ID

	if err := handler.Execute(ctx, action); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if got := caseSystem.cases[seeded.ID].Status; got != cases.StatusCancelled {
		t.Errorf("Status = %s, want CANCELLED", got)
	}
}
