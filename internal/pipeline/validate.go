package pipeline

import (
	"fmt"

	"github.com/fieldgate/loa-worker/internal/messages"
)

// Validation is the verdict of comparing a result against the
// expected_* annotations on a message. It supports replay and
// regression runs; production control flow never consults it.
type Validation struct {
	MessageID string   `json:"message_id"`
	Passed    bool     `json:"passed"`
	Errors    []string `json:"errors,omitempty"`
}

// ValidateResult compares classification category, action type, and
// extracted client name against metadata-supplied expectations.
// Expectations absent from the metadata are not checked.
func ValidateResult(msg *messages.Message, result *Result) Validation {
	v := Validation{
		MessageID: msg.ID,
		Passed:    true,
	}

	if expected, _ := msg.Metadata["expected_category"].(string); expected != "" {
		if result.Class != nil && string(result.Class.Category) != expected {
			v.fail(fmt.Sprintf(
				"category mismatch: expected %s, got %s",
				expected, result.Class.Category,
			))
		}
	}

	if expected, _ := msg.Metadata["expected_action"].(string); expected != "" {
		if len(result.ActionsTaken) > 0 {
			actual := string(result.ActionsTaken[0].Type)
			if actual != expected {
				v.fail(fmt.Sprintf("action mismatch: expected %s, got %s", expected, actual))
			}
		} else {
			v.fail(fmt.Sprintf("no action taken, expected %s", expected))
		}
	}

	if expected, _ := msg.Metadata["expected_client_name"].(string); expected != "" {
		if result.Entities != nil && result.Entities.ClientName != expected {
			v.fail(fmt.Sprintf(
				"client name mismatch: expected %s, got %s",
				expected, result.Entities.ClientName,
			))
		}
	}

	return v
}

func (v *Validation) fail(reason string) {
	v.Passed = false
	v.Errors = append(v.Errors, reason)
}
