package cases

import (
	"encoding/json"
	"fmt"

	"github.com/fieldgate/loa-worker/pkg/query"
	"github.com/fieldgate/loa-worker/pkg/repository"
)

var caseProjection = query.
	NewProjectionMap("public", "cases", "c").
	Project("id", "ID").
	Project("client_name", "ClientName").
	Project("title", "Title").
	Project("case_type", "CaseType").
	Project("status", "Status").
	Project("required_fields", "RequiredFields").
	Project("received_fields", "ReceivedFields").
	Project("tags", "Tags").
	Project("notes", "Notes").
	Project("metadata", "Metadata").
	Project("assigned_to", "AssignedTo").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("completed_at", "CompletedAt")

var taskProjection = query.
	NewProjectionMap("public", "tasks", "t").
	Project("id", "ID").
	Project("case_id", "CaseID").
	Project("title", "Title").
	Project("description", "Description").
	Project("status", "Status").
	Project("due_date", "DueDate").
	Project("assigned_to", "AssignedTo").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("completed_at", "CompletedAt")

var caseDefaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

var taskDefaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for case queries.
// Nil fields are ignored. Status, CaseType, and AssignedTo use exact
// matching. ClientName and Title use case-insensitive contains matching.
type Filters struct {
	Status     *string `json:"status,omitempty"`
	CaseType   *string `json:"case_type,omitempty"`
	ClientName *string `json:"client_name,omitempty"`
	Title      *string `json:"title,omitempty"`
	AssignedTo *string `json:"assigned_to,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("CaseType", f.CaseType).
		WhereContains("ClientName", f.ClientName).
		WhereContains("Title", f.Title).
		WhereEquals("AssignedTo", f.AssignedTo)
}

func scanCase(s repository.Scanner) (Case, error) {
	var (
		c              Case
		requiredFields []byte
		receivedFields []byte
		tags           []byte
		metadata       []byte
	)

	err := s.Scan(
		&c.ID,
		&c.ClientName,
		&c.Title,
		&c.CaseType,
		&c.Status,
		&requiredFields,
		&receivedFields,
		&tags,
		&c.Notes,
		&metadata,
		&c.AssignedTo,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.CompletedAt,
	)
	if err != nil {
		return c, err
	}

	if err := json.Unmarshal(requiredFields, &c.RequiredFields); err != nil {
		return c, fmt.Errorf("decode required_fields: %w", err)
	}
	if err := json.Unmarshal(receivedFields, &c.ReceivedFields); err != nil {
		return c, fmt.Errorf("decode received_fields: %w", err)
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &c.Tags); err != nil {
			return c, fmt.Errorf("decode tags: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &c.Metadata); err != nil {
			return c, fmt.Errorf("decode metadata: %w", err)
		}
	}

	return c, nil
}

func encodeCase(c *Case) (requiredFields, receivedFields, tags, metadata []byte, err error) {
	if c.RequiredFields == nil {
		c.RequiredFields = []string{}
	}
	if c.ReceivedFields == nil {
		c.ReceivedFields = map[string]FieldValue{}
	}

	if requiredFields, err = json.Marshal(c.RequiredFields); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode required_fields: %w", err)
	}
	if receivedFields, err = json.Marshal(c.ReceivedFields); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode received_fields: %w", err)
	}
	if c.Tags != nil {
		if tags, err = json.Marshal(c.Tags); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode tags: %w", err)
		}
	}
	if c.Metadata != nil {
		if metadata, err = json.Marshal(c.Metadata); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode metadata: %w", err)
		}
	}

	return requiredFields, receivedFields, tags, metadata, nil
}

func scanTask(s repository.Scanner) (Task, error) {
	var t Task
	err := s.Scan(
		&t.ID,
		&t.CaseID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.DueDate,
		&t.AssignedTo,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CompletedAt,
	)
	return t, err
}
