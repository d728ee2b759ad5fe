package cases_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fieldgate/loa-worker/internal/cases"
)

func TestIsComplete(t *testing.T) {
	t.Run("loa case with all required fields", func(t *testing.T) {
		c := cases.Case{
			CaseType:       cases.TypeLoA,
			Status:         cases.StatusInProgress,
			RequiredFields: []string{"date_of_birth", "plan_number"},
			ReceivedFields: map[string]cases.FieldValue{
				"date_of_birth": {FieldName: "date_of_birth", Value: "1980-04-12"},
				"plan_number":   {FieldName: "plan_number", Value: "PL-123"},
			},
		}

		if !c.IsComplete() {
			t.Error("IsComplete = false, want true")
		}
	})

	t.Run("loa case with missing fields", func(t *testing.T) {
		c := cases.Case{
			CaseType:       cases.TypeLoA,
			RequiredFields: []string{"date_of_birth", "plan_number"},
			ReceivedFields: map[string]cases.FieldValue{
				"date_of_birth": {FieldName: "date_of_birth", Value: "1980-04-12"},
			},
		}

		if c.IsComplete() {
			t.Error("IsComplete = true, want false")
		}
	})

	t.Run("loa case with no required fields", func(t *testing.T) {
		c := cases.Case{CaseType: cases.TypeLoA, Status: cases.StatusOpen}

		if !c.IsComplete() {
			t.Error("IsComplete = false, want true")
		}
	})

	t.Run("general case depends on status", func(t *testing.T) {
		c := cases.Case{CaseType: cases.TypeGeneral, Status: cases.StatusInProgress}
		if c.IsComplete() {
			t.Error("IsComplete = true, want false")
		}

		c.Status = cases.StatusComplete
		if !c.IsComplete() {
			t.Error("IsComplete = false, want true")
		}
	})
}

func TestMissingFields(t *testing.T) {
	c := cases.Case{
		RequiredFields: []string{"date_of_birth", "national_insurance_number", "plan_number"},
		ReceivedFields: map[string]cases.FieldValue{
			"national_insurance_number": {FieldName: "national_insurance_number", Value: "QQ123456C"},
		},
	}

	got := c.MissingFields()
	want := []string{"date_of_birth", "plan_number"}

	if len(got) != len(want) {
		t.Fatalf("MissingFields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MissingFields[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCompletionPercentage(t *testing.T) {
	t.Run("no required fields is always 100", func(t *testing.T) {
		c := cases.Case{}
		if got := c.CompletionPercentage(); got != 100.0 {
			t.Errorf("CompletionPercentage = %v, want 100", got)
		}
	})

	t.Run("half received", func(t *testing.T) {
		c := cases.Case{
			RequiredFields: []string{"a", "b", "c", "d"},
			ReceivedFields: map[string]cases.FieldValue{
				"a": {}, "c": {},
			},
		}
		if got := c.CompletionPercentage(); got != 50.0 {
			t.Errorf("CompletionPercentage = %v, want 50", got)
		}
	})

	t.Run("extra fields do not count", func(t *testing.T) {
		c := cases.Case{
			RequiredFields: []string{"a", "b"},
			ReceivedFields: map[string]cases.FieldValue{
				"a": {}, "x": {}, "y": {},
			},
		}
		if got := c.CompletionPercentage(); got != 50.0 {
			t.Errorf("CompletionPercentage = %v, want 50", got)
		}
	})
}

func TestNewCaseID(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	t.Run("slugs the client name", func(t *testing.T) {
		id := cases.NewCaseID(now, "Jane O'Connor-Smith")
		if !strings.HasPrefix(id, "case_") {
			t.Errorf("id = %s, want case_ prefix", id)
		}
		if !strings.HasSuffix(id, "_jane-oconnor-smith") {
			t.Errorf("id = %s, want jane-oconnor-smith suffix", id)
		}
	})

	t.Run("empty client falls back to unknown", func(t *testing.T) {
		id := cases.NewCaseID(now, "  ")
		if !strings.HasSuffix(id, "_unknown") {
			t.Errorf("id = %s, want unknown suffix", id)
		}
	})
}

func TestReceivedFieldNames(t *testing.T) {
	c := cases.Case{
		ReceivedFields: map[string]cases.FieldValue{
			"plan_number":   {},
			"date_of_birth": {},
		},
	}

	got := c.ReceivedFieldNames()
	if len(got) != 2 || got[0] != "date_of_birth" || got[1] != "plan_number" {
		t.Errorf("ReceivedFieldNames = %v, want sorted [date_of_birth plan_number]", got)
	}
}
