package audit_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/fieldgate/loa-worker/internal/audit"
)

func TestNewEntry(t *testing.T) {
	t.Run("populates identity and timestamp", func(t *testing.T) {
		e := audit.NewEntry("case_1", "UPDATE_CASE", "msg_001")

		if e.ID == uuid.Nil {
			t.Error("ID not generated")
		}
		if e.Timestamp.IsZero() {
			t.Error("Timestamp not stamped")
		}
		if e.CaseID != "case_1" || e.ActionType != "UPDATE_CASE" || e.TriggeredBy != "msg_001" {
			t.Errorf("entry = %+v, want supplied values", e)
		}
	})

	t.Run("empty case id normalizes to unknown", func(t *testing.T) {
		e := audit.NewEntry("", "IGNORE", "msg_001")
		if e.CaseID != audit.UnknownCaseID {
			t.Errorf("CaseID = %q, want %q", e.CaseID, audit.UnknownCaseID)
		}
	})

	t.Run("state snapshots default to empty maps", func(t *testing.T) {
		e := audit.NewEntry("case_1", "CREATE_CASE", "msg_001")
		if e.BeforeState == nil || e.AfterState == nil {
			t.Error("state snapshots should be non-nil")
		}
		if len(e.BeforeState) != 0 || len(e.AfterState) != 0 {
			t.Errorf("snapshots = %v/%v, want empty", e.BeforeState, e.AfterState)
		}
	})
}
