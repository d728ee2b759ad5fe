// Package cases implements the case domain: the durable workflow
// records tracking a client's request, its field-completion progress,
// its status transitions, and its tasks.
package cases

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Status is the workflow state of a case.
type Status string

const (
	StatusOpen         Status = "OPEN"
	StatusInProgress   Status = "IN_PROGRESS"
	StatusAwaitingInfo Status = "AWAITING_INFO"
	StatusComplete     Status = "COMPLETE"
	StatusCancelled    Status = "CANCELLED"
)

// Type categorizes the kind of work a case tracks.
type Type string

const (
	TypeLoA          Type = "loa"
	TypeGeneral      Type = "general"
	TypeAnnualReview Type = "annual_review"
)

// DefaultLoARequiredFields are the canonical fields a Letter of
// Authority case must collect before it can complete.
var DefaultLoARequiredFields = []string{
	"date_of_birth",
	"national_insurance_number",
	"plan_number",
	"provider_name",
}

// FieldValue records a single received field with provenance.
// Values are immutable once created; a later value for the same
// field name replaces the case's mapping entry.
type FieldValue struct {
	FieldName  string    `json:"field_name"`
	Value      string    `json:"value"`
	ReceivedAt time.Time `json:"received_at"`
	SourceID   string    `json:"source_id"`
	Confidence float64   `json:"confidence"`
}

// Case is the durable workflow unit.
type Case struct {
	ID             string                `json:"id"`
	ClientName     string                `json:"client_name"`
	Title          string                `json:"title"`
	CaseType       Type                  `json:"case_type"`
	Status         Status                `json:"status"`
	RequiredFields []string              `json:"required_fields"`
	ReceivedFields map[string]FieldValue `json:"received_fields"`
	Tags           []string              `json:"tags,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Metadata       map[string]any        `json:"metadata,omitempty"`
	AssignedTo     string                `json:"assigned_to,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty"`
}

// Task is a unit of work that may exist standalone or under a case.
type Task struct {
	ID          string     `json:"id"`
	CaseID      string     `json:"case_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewCaseID synthesizes a case identifier from a timestamp and
// client name slug.
func NewCaseID(now time.Time, clientName string) string {
	return fmt.Sprintf("case_%d_%s", now.UnixNano(), slug(clientName))
}

// NewTaskID synthesizes a task identifier from a timestamp.
func NewTaskID(now time.Time) string {
	return fmt.Sprintf("task_%d", now.UnixNano())
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "unknown"
	}
	return out
}

// IsComplete reports completion. An LoA case is complete when every
// required field has been received; other case types are complete
// only when their status is COMPLETE.
func (c *Case) IsComplete() bool {
	if c.CaseType == TypeLoA {
		for _, field := range c.RequiredFields {
			if _, ok := c.ReceivedFields[field]; !ok {
				return false
			}
		}
		return true
	}
	return c.Status == StatusComplete
}

// MissingFields returns required fields not yet received, preserving
// required-field order.
func (c *Case) MissingFields() []string {
	missing := make([]string, 0)
	for _, field := range c.RequiredFields {
		if _, ok := c.ReceivedFields[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// CompletionPercentage returns received∩required / required as a
// percentage. A case with no required fields is always 100%.
func (c *Case) CompletionPercentage() float64 {
	if len(c.RequiredFields) == 0 {
		return 100.0
	}

	received := 0
	for _, field := range c.RequiredFields {
		if _, ok := c.ReceivedFields[field]; ok {
			received++
		}
	}

	return float64(received) / float64(len(c.RequiredFields)) * 100.0
}

// ReceivedFieldNames returns the sorted names of all received fields.
func (c *Case) ReceivedFieldNames() []string {
	names := make([]string, 0, len(c.ReceivedFields))
	for name := range c.ReceivedFields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
