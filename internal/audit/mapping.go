package audit

import (
	"encoding/json"
	"fmt"

	"github.com/fieldgate/loa-worker/pkg/query"
	"github.com/fieldgate/loa-worker/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "audit_logs", "a").
	Project("id", "ID").
	Project("ts", "Timestamp").
	Project("case_id", "CaseID").
	Project("action_type", "ActionType").
	Project("before_state", "BeforeState").
	Project("after_state", "AfterState").
	Project("triggered_by", "TriggeredBy").
	Project("success", "Success").
	Project("error_message", "ErrorMessage").
	Project("metadata", "Metadata")

var defaultSort = query.SortField{
	Field:      "Timestamp",
	Descending: true,
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var (
		e           Entry
		beforeState []byte
		afterState  []byte
		metadata    []byte
	)

	err := s.Scan(
		&e.ID,
		&e.Timestamp,
		&e.CaseID,
		&e.ActionType,
		&beforeState,
		&afterState,
		&e.TriggeredBy,
		&e.Success,
		&e.ErrorMessage,
		&metadata,
	)
	if err != nil {
		return e, err
	}

	if err := json.Unmarshal(beforeState, &e.BeforeState); err != nil {
		return e, fmt.Errorf("decode before_state: %w", err)
	}
	if err := json.Unmarshal(afterState, &e.AfterState); err != nil {
		return e, fmt.Errorf("decode after_state: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return e, fmt.Errorf("decode metadata: %w", err)
		}
	}

	return e, nil
}
