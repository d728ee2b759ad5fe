package pipeline_test

import (
	"testing"

	"github.com/fieldgate/loa-worker/internal/llm"
	"github.com/fieldgate/loa-worker/internal/messages"
	"github.com/fieldgate/loa-worker/internal/pipeline"
)

func TestResultSkipped(t *testing.T) {
	relevant := llm.Classification{Category: llm.CategoryLoAResponse, Relevant: true}
	irrelevant := llm.Classification{Category: llm.CategoryIrrelevant}

	tests := []struct {
		name   string
		result pipeline.Result
		want   bool
	}{
		{"relevant success is not skipped", pipeline.Result{Success: true, Class: &relevant}, false},
		{"irrelevant success is skipped", pipeline.Result{Success: true, Class: &irrelevant}, true},
		{"success with no classification is skipped", pipeline.Result{Success: true}, true},
		{"failure is never skipped", pipeline.Result{Success: false}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.result.Skipped(); got != tc.want {
				t.Errorf("Skipped = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBatchSuccessRate(t *testing.T) {
	tests := []struct {
		name  string
		batch pipeline.BatchResult
		want  float64
	}{
		{"empty batch", pipeline.BatchResult{}, 0},
		{"all processed", pipeline.BatchResult{TotalMessages: 4, Processed: 4}, 100},
		{"mixed outcomes", pipeline.BatchResult{TotalMessages: 10, Processed: 7, Skipped: 2, Failed: 1}, 70},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.batch.SuccessRate(); got != tc.want {
				t.Errorf("SuccessRate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidateResult(t *testing.T) {
	msg := func(metadata map[string]any) *messages.Message {
		return &messages.Message{ID: "msg_v", Metadata: metadata}
	}

	t.Run("passes with no expectations", func(t *testing.T) {
		v := pipeline.ValidateResult(msg(nil), &pipeline.Result{Success: true})
		if !v.Passed {
			t.Errorf("Validation = %+v, want passed", v)
		}
	})

	t.Run("category match passes", func(t *testing.T) {
		class := llm.Classification{Category: llm.CategoryLoAResponse, Relevant: true}
		v := pipeline.ValidateResult(
			msg(map[string]any{"expected_category": "LOA_RESPONSE"}),
			&pipeline.Result{Success: true, Class: &class},
		)
		if !v.Passed {
			t.Errorf("Validation = %+v, want passed", v)
		}
	})

	t.Run("category mismatch fails", func(t *testing.T) {
		class := llm.Classification{Category: llm.CategoryAdmin}
		v := pipeline.ValidateResult(
			msg(map[string]any{"expected_category": "LOA_RESPONSE"}),
			&pipeline.Result{Success: true, Class: &class},
		)
		if v.Passed || len(v.Errors) != 1 {
			t.Errorf("Validation = %+v, want one failure", v)
		}
	})

	t.Run("expected action with none taken fails", func(t *testing.T) {
		v := pipeline.ValidateResult(
			msg(map[string]any{"expected_action": "UPDATE_CASE"}),
			&pipeline.Result{Success: true},
		)
		if v.Passed {
			t.Errorf("Validation = %+v, want failure", v)
		}
	})

	t.Run("client name mismatch fails", func(t *testing.T) {
		entities := llm.ExtractedEntities{ClientName: "Tom Baker"}
		v := pipeline.ValidateResult(
			msg(map[string]any{"expected_client_name": "Jane Smith"}),
			&pipeline.Result{Success: true, Entities: &entities},
		)
		if v.Passed {
			t.Errorf("Validation = %+v, want failure", v)
		}
	})
}
