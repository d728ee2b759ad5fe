package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldgate/loa-worker/internal/actions"
	"github.com/fieldgate/loa-worker/internal/audit"
	"github.com/fieldgate/loa-worker/internal/cases"
	"github.com/fieldgate/loa-worker/internal/llm"
	"github.com/fieldgate/loa-worker/internal/messages"
	"github.com/fieldgate/loa-worker/internal/pipeline"
)

// memoryCases is an in-memory cases.System for pipeline tests.
type memoryCases struct {
	cases map[string]cases.Case
	tasks map[string]cases.Task
}

func newMemoryCases() *memoryCases {
	return &memoryCases{
		cases: map[string]cases.Case{},
		tasks: map[string]cases.Task{},
	}
}

func (m *memoryCases) Create(ctx context.Context, c cases.Case) (*cases.Case, error) {
	if _, ok := m.cases[c.ID]; ok {
		return nil, cases.ErrDuplicate
	}
	m.cases[c.ID] = c
	return &c, nil
}

func (m *memoryCases) Get(ctx context.Context, id string) (*cases.Case, error) {
	c, ok := m.cases[id]
	if !ok {
		return nil, cases.ErrNotFound
	}
	return &c, nil
}

func (m *memoryCases) Update(ctx context.Context, c cases.Case) (*cases.Case, error) {
	if _, ok := m.cases[c.ID]; !ok {
		return nil, cases.ErrNotFound
	}
	m.cases[c.ID] = c
	return &c, nil
}

func (m *memoryCases) FindByClientAndTitle(ctx context.Context, clientName, title string) (*cases.Case, error) {
	var match *cases.Case
	for _, c := range m.cases {
		if c.ClientName != clientName || cases.IsTerminal(c.Status) {
			continue
		}
		if title != "" && !strings.Contains(c.Title, title) {
			continue
		}
		if match == nil || c.UpdatedAt.After(match.UpdatedAt) {
			candidate := c
			match = &candidate
		}
	}
	if match == nil {
		return nil, cases.ErrNotFound
	}
	return match, nil
}

func (m *memoryCases) List(ctx context.Context, filters cases.Filters, limit int) ([]cases.Case, error) {
	out := make([]cases.Case, 0, len(m.cases))
	for _, c := range m.cases {
		out = append(out, c)
	}
	return out, nil
}

func (m *memoryCases) CreateTask(ctx context.Context, t cases.Task) (*cases.Task, error) {
	m.tasks[t.ID] = t
	return &t, nil
}

func (m *memoryCases) UpdateTask(ctx context.Context, t cases.Task) (*cases.Task, error) {
	if _, ok := m.tasks[t.ID]; !ok {
		return nil, cases.ErrTaskNotFound
	}
	m.tasks[t.ID] = t
	return &t, nil
}

func (m *memoryCases) FindTaskByTitle(ctx context.Context, title, caseID string) (*cases.Task, error) {
	for _, task := range m.tasks {
		if task.Title != title || task.Status == cases.StatusComplete {
			continue
		}
		if caseID != "" && task.CaseID != caseID {
			continue
		}
		return &task, nil
	}
	return nil, cases.ErrTaskNotFound
}

// memoryAudit is an in-memory audit.System for pipeline tests.
type memoryAudit struct {
	entries []audit.Entry
}

func (m *memoryAudit) Log(ctx context.Context, e audit.Entry) (*audit.Entry, error) {
	m.entries = append(m.entries, e)
	return &e, nil
}

func (m *memoryAudit) TrailForCase(ctx context.Context, caseID string) ([]audit.Entry, error) {
	out := make([]audit.Entry, 0)
	for _, e := range m.entries {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryAudit) Recent(ctx context.Context, limit int) ([]audit.Entry, error) {
	return m.entries, nil
}

func (m *memoryAudit) Failed(ctx context.Context, limit int) ([]audit.Entry, error) {
	out := make([]audit.Entry, 0)
	for _, e := range m.entries {
		if !e.Success {
			out = append(out, e)
		}
	}
	return out, nil
}

type harness struct {
	orchestrator *pipeline.Orchestrator
	cases        *memoryCases
	audit        *memoryAudit
}

func newHarness() *harness {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	caseSystem := newMemoryCases()
	auditSystem := &memoryAudit{}
	service := llm.NewScripted(logger)

	router := actions.NewRouter(
		actions.NewCaseHandler(caseSystem, auditSystem, logger),
		actions.NewTaskHandler(caseSystem, auditSystem, logger),
		actions.NewFollowupHandler(caseSystem, auditSystem, service, nil, logger),
		logger,
	)

	return &harness{
		orchestrator: pipeline.NewOrchestrator(service, caseSystem, router, nil, logger),
		cases:        caseSystem,
		audit:        auditSystem,
	}
}

func (h *harness) seedLoACase(clientName string, received ...string) cases.Case {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	fields := map[string]cases.FieldValue{}
	for _, name := range received {
		fields[name] = cases.FieldValue{FieldName: name, Value: "seeded", ReceivedAt: now}
	}

	c := cases.Case{
		ID:             cases.NewCaseID(now, clientName),
		ClientName:     clientName,
		Title:          "LoA for " + clientName,
		CaseType:       cases.TypeLoA,
		Status:         cases.StatusInProgress,
		RequiredFields: append([]string{}, cases.DefaultLoARequiredFields...),
		ReceivedFields: fields,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	h.cases.cases[c.ID] = c
	return c
}

func scripted(id, body string, metadata map[string]any) *messages.Message {
	return &messages.Message{
		ID:         id,
		Source:     messages.SourceEmail,
		Content:    &messages.EmailContent{From: "provider@abcplatform.com", Body: body},
		ReceivedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Status:     messages.StatusPending,
		Metadata:   metadata,
	}
}

func TestProcessMessageUpdatesExistingCase(t *testing.T) {
	h := newHarness()
	seeded := h.seedLoACase("Jane Smith", "date_of_birth")

	msg := scripted(
		"msg_001",
		"Jane Smith's NI Number is QQ123456C.",
		map[string]any{
			"expected_category":         "LOA_RESPONSE",
			"expected_client_name":      "Jane Smith",
			"expected_updated_contains": []any{"NI Number"},
		},
	)

	result := h.orchestrator.ProcessMessage(context.Background(), msg)

	require.True(t, result.Success, "error: %s", result.ErrorMessage)
	require.False(t, result.Skipped())
	require.Len(t, result.ActionsTaken, 1)

	action := result.ActionsTaken[0]
	assert.Equal(t, actions.TypeUpdateCase, action.Type)
	assert.Equal(t, seeded.ID, action.CaseID)
	require.NotNil(t, action.Success)
	assert.True(t, *action.Success)

	stored := h.cases.cases[seeded.ID]
	assert.Contains(t, stored.ReceivedFields, "national_insurance_number")
	assert.Equal(t, cases.StatusAwaitingInfo, stored.Status)

	assert.Equal(t, messages.StatusProcessed, msg.Status)

	trail, err := h.audit.TrailForCase(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, string(actions.TypeUpdateCase), trail[0].ActionType)
	assert.True(t, trail[0].Success)
}

func TestProcessMessageCompletesCaseOnFinalField(t *testing.T) {
	h := newHarness()
	seeded := h.seedLoACase(
		"Jane Smith",
		"date_of_birth", "national_insurance_number", "plan_number",
	)

	msg := scripted(
		"msg_002",
		"The provider is ABC Platform.",
		map[string]any{
			"expected_category":         "LOA_RESPONSE",
			"expected_client_name":      "Jane Smith",
			"expected_updated_contains": []any{"provider"},
		},
	)

	result := h.orchestrator.ProcessMessage(context.Background(), msg)

	require.True(t, result.Success, "error: %s", result.ErrorMessage)

	stored := h.cases.cases[seeded.ID]
	assert.Equal(t, cases.StatusComplete, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, stored.IsComplete())
}

func TestProcessMessageCreatesCaseForNewClient(t *testing.T) {
	h := newHarness()

	msg := scripted(
		"msg_003",
		"Please start an LoA for Tom Baker.",
		map[string]any{
			"expected_category":    "LOA_CHASE",
			"expected_client_name": "Tom Baker",
			"expected_case_title":  "LoA for Tom Baker",
		},
	)

	result := h.orchestrator.ProcessMessage(context.Background(), msg)

	require.True(t, result.Success, "error: %s", result.ErrorMessage)
	require.Len(t, result.ActionsTaken, 1)

	action := result.ActionsTaken[0]
	assert.Equal(t, actions.TypeCreateCase, action.Type)
	require.NotEmpty(t, action.CaseID)

	stored := h.cases.cases[action.CaseID]
	assert.Equal(t, "Tom Baker", stored.ClientName)
	assert.Equal(t, cases.TypeLoA, stored.CaseType)
	assert.Equal(t, cases.StatusOpen, stored.Status)
	assert.Equal(t, cases.DefaultLoARequiredFields, stored.RequiredFields)
}

func TestProcessMessageSkipsIrrelevant(t *testing.T) {
	h := newHarness()

	msg := scripted(
		"msg_004",
		"Totally unrelated content.",
		map[string]any{"expected_category": "IRRELEVANT"},
	)

	result := h.orchestrator.ProcessMessage(context.Background(), msg)

	require.True(t, result.Success)
	assert.True(t, result.Skipped())
	assert.Empty(t, result.ActionsTaken)
	assert.Equal(t, messages.StatusSkipped, msg.Status)
}

func TestProcessMessageFiltersSpam(t *testing.T) {
	h := newHarness()

	msg := scripted(
		"msg_005",
		"Huge discount! Click here before the sale ends.",
		map[string]any{"expected_category": "LOA_RESPONSE"},
	)
	msg.Content = &messages.EmailContent{
		From: "promo@randommail.com",
		Body: "Huge discount! Click here before the sale ends.",
	}

	result := h.orchestrator.ProcessMessage(context.Background(), msg)

	require.True(t, result.Success)
	assert.True(t, result.Skipped())
	require.NotNil(t, result.Class)
	assert.Equal(t, llm.CategoryIrrelevant, result.Class.Category)
	assert.Contains(t, result.Class.Reasoning, "pre-filter")
}

func TestProcessBatch(t *testing.T) {
	h := newHarness()
	h.seedLoACase("Jane Smith", "date_of_birth")

	batch := []*messages.Message{
		scripted("msg_010", "NI Number enclosed for the policy.", map[string]any{
			"expected_category":         "LOA_RESPONSE",
			"expected_client_name":      "Jane Smith",
			"expected_updated_contains": []any{"NI Number"},
		}),
		scripted("msg_011", "Nothing of note.", map[string]any{
			"expected_category": "IRRELEVANT",
		}),
		scripted("msg_012", "Broken expectation.", map[string]any{
			"expected_category": "NOT_A_CATEGORY",
		}),
	}

	result := h.orchestrator.ProcessBatch(context.Background(), batch)

	assert.Equal(t, 3, result.TotalMessages)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.InDelta(t, 33.33, result.SuccessRate(), 0.01)
	require.Len(t, result.Results, 3)

	assert.Equal(t, messages.StatusFailed, batch[2].Status)
	assert.NotEmpty(t, result.Results[2].ErrorMessage)
}
