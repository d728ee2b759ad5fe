// Package actions implements decided units of work and their
// execution: a closed router dispatching each action type to its
// owning handler, with every execution attempt recorded in the
// audit trail.
package actions

import (
	"time"

	"github.com/google/uuid"
)

// Type declares what an action does when executed.
type Type string

const (
	TypeCreateCase         Type = "CREATE_CASE"
	TypeUpdateCase         Type = "UPDATE_CASE"
	TypeCompleteCase       Type = "COMPLETE_CASE"
	TypeCancelCase         Type = "CANCEL_CASE"
	TypeCreateTask         Type = "CREATE_TASK"
	TypeCompleteTask       Type = "COMPLETE_TASK"
	TypeDraftFollowupEmail Type = "DRAFT_FOLLOWUP_EMAIL"
	TypeInitiateLoAChase   Type = "INITIATE_LOA_CHASE"
	TypeIgnore             Type = "IGNORE"
)

// ParseType converts a string to an action Type.
// Unrecognized values map to TypeIgnore.
func ParseType(s string) Type {
	switch Type(s) {
	case TypeCreateCase, TypeUpdateCase, TypeCompleteCase, TypeCancelCase,
		TypeCreateTask, TypeCompleteTask,
		TypeDraftFollowupEmail, TypeInitiateLoAChase:
		return Type(s)
	default:
		return TypeIgnore
	}
}

// Action is a discrete, auditable unit of work derived from a message.
// Exactly one action is produced per processed relevant message.
// ExecutedAt, Success, and ErrorMessage are stamped by handlers.
type Action struct {
	ID           string         `json:"id"`
	Type         Type           `json:"type"`
	CaseID       string         `json:"case_id,omitempty"`
	Parameters   map[string]any `json:"parameters"`
	MessageID    string         `json:"message_id"`
	CreatedAt    time.Time      `json:"created_at"`
	ExecutedAt   *time.Time     `json:"executed_at,omitempty"`
	Success      *bool          `json:"success,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// NewAction constructs an action with a generated id.
func NewAction(actionType Type, messageID string, params map[string]any) *Action {
	if params == nil {
		params = map[string]any{}
	}

	return &Action{
		ID:         uuid.New().String(),
		Type:       actionType,
		Parameters: params,
		MessageID:  messageID,
		CreatedAt:  time.Now().UTC(),
	}
}

// markExecuted stamps post-execution fields on the action.
func (a *Action) markExecuted(success bool, errMsg string) {
	now := time.Now().UTC()
	a.ExecutedAt = &now
	a.Success = &success
	a.ErrorMessage = errMsg
}

// stringParam extracts a string parameter, returning "" when absent
// or not a string.
func (a *Action) stringParam(key string) string {
	if v, ok := a.Parameters[key].(string); ok {
		return v
	}
	return ""
}

// stringSliceParam extracts a string-slice parameter, tolerating the
// []any form produced by JSON decoding.
func (a *Action) stringSliceParam(key string) []string {
	switch v := a.Parameters[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// mapParam extracts a map parameter, returning nil when absent.
func (a *Action) mapParam(key string) map[string]any {
	if v, ok := a.Parameters[key].(map[string]any); ok {
		return v
	}
	return nil
}
