package llm_test

import (
	"testing"

	"github.com/fieldgate/loa-worker/internal/llm"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want llm.Category
		ok   bool
	}{
		{"LOA_RESPONSE", llm.CategoryLoAResponse, true},
		{"loa_response", llm.CategoryLoAResponse, true},
		{"  LOA-RESPONSE  ", llm.CategoryLoAResponse, true},
		{"loa response", llm.CategoryLoAResponse, true},
		{"MISSING_INFO", llm.CategoryLoAMissingInfo, true},
		{"CHASE", llm.CategoryLoAChase, true},
		{"RESPONSE", llm.CategoryLoAResponse, true},
		{"CLIENT_TASK", llm.CategoryClientTask, true},
		{"ADMIN", llm.CategoryAdmin, true},
		{"IRRELEVANT", llm.CategoryIrrelevant, true},
		{"SOMETHING_ELSE", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		got, ok := llm.ParseCategory(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseCategory(%q) = (%s, %v), want (%s, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestClassificationNormalize(t *testing.T) {
	t.Run("clamps confidence", func(t *testing.T) {
		c := llm.Classification{Category: llm.CategoryLoAResponse, Confidence: 1.4, Relevant: true}
		if got := c.Normalize(); got.Confidence != 1.0 {
			t.Errorf("Confidence = %v, want 1.0", got.Confidence)
		}

		c.Confidence = -0.2
		if got := c.Normalize(); got.Confidence != 0.0 {
			t.Errorf("Confidence = %v, want 0.0", got.Confidence)
		}
	})

	t.Run("forces admin and irrelevant to not relevant", func(t *testing.T) {
		for _, category := range []llm.Category{llm.CategoryAdmin, llm.CategoryIrrelevant} {
			c := llm.Classification{Category: category, Confidence: 0.9, Relevant: true}
			if got := c.Normalize(); got.Relevant {
				t.Errorf("Normalize(%s).Relevant = true, want false", category)
			}
		}
	})

	t.Run("preserves relevance for workflow categories", func(t *testing.T) {
		c := llm.Classification{Category: llm.CategoryLoAChase, Confidence: 0.8, Relevant: true}
		if got := c.Normalize(); !got.Relevant {
			t.Error("Relevant = false, want true")
		}
	})
}

func TestCategoryDescription(t *testing.T) {
	for _, category := range llm.Categories {
		if category.Description() == "" {
			t.Errorf("Description(%s) is empty", category)
		}
	}

	if llm.Category("BOGUS").Description() != "Uncategorized message type." {
		t.Error("unknown category should describe itself as uncategorized")
	}
}
