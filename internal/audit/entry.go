// Package audit implements the append-only audit trail. Every action
// execution, successful or failed, produces exactly one entry with
// before and after state snapshots. Entries are never mutated or
// deleted.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// UnknownCaseID is recorded when an action has no case reference.
const UnknownCaseID = "unknown"

// Entry is a single audit trail record.
type Entry struct {
	ID           uuid.UUID      `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	CaseID       string         `json:"case_id"`
	ActionType   string         `json:"action_type"`
	BeforeState  map[string]any `json:"before_state"`
	AfterState   map[string]any `json:"after_state"`
	TriggeredBy  string         `json:"triggered_by"`
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// NewEntry constructs an entry with a generated id and the current
// timestamp. An empty caseID is normalized to UnknownCaseID.
func NewEntry(caseID, actionType, triggeredBy string) Entry {
	if caseID == "" {
		caseID = UnknownCaseID
	}

	return Entry{
		ID:          uuid.New(),
		Timestamp:   time.Now().UTC(),
		CaseID:      caseID,
		ActionType:  actionType,
		BeforeState: map[string]any{},
		AfterState:  map[string]any{},
		TriggeredBy: triggeredBy,
	}
}
