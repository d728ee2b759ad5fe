package pipeline

import (
	"time"

	"github.com/fieldgate/loa-worker/internal/actions"
	"github.com/fieldgate/loa-worker/internal/llm"
)

// Result summarizes the processing of a single message. It is
// reporting output, not authoritative state.
type Result struct {
	MessageID    string                 `json:"message_id"`
	Success      bool                   `json:"success"`
	Class        *llm.Classification    `json:"classification,omitempty"`
	Entities     *llm.ExtractedEntities `json:"extracted_entities,omitempty"`
	ActionsTaken []*actions.Action      `json:"actions_taken,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Elapsed      time.Duration          `json:"elapsed"`
}

// Skipped reports whether the message was relevant enough to act on.
// Filtered and irrelevant messages succeed but count as skipped.
func (r *Result) Skipped() bool {
	return r.Success && (r.Class == nil || !r.Class.Relevant)
}

// BatchResult aggregates per-message results with batch statistics.
type BatchResult struct {
	TotalMessages int           `json:"total_messages"`
	Processed     int           `json:"processed"`
	Skipped       int           `json:"skipped"`
	Failed        int           `json:"failed"`
	Results       []*Result     `json:"results"`
	Elapsed       time.Duration `json:"elapsed"`
}

// SuccessRate returns processed/total as a percentage. Skipped and
// failed messages are excluded from the processed count.
func (b *BatchResult) SuccessRate() float64 {
	if b.TotalMessages == 0 {
		return 0
	}
	return float64(b.Processed) / float64(b.TotalMessages) * 100
}
