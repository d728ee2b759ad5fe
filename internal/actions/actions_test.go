package actions_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fieldgate/loa-worker/internal/actions"
	"github.com/fieldgate/loa-worker/internal/audit"
	"github.com/fieldgate/loa-worker/internal/cases"
	"github.com/fieldgate/loa-worker/pkg/lifecycle"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryCases is an in-memory cases.System for handler tests.
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
	for _, c := range m.cases {
		if c.ClientName == clientName && !cases.IsTerminal(c.Status) {
			candidate := c
			return &candidate, nil
		}
	}
	return nil, cases.ErrNotFound
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
		found := task
		return &found, nil
	}
	return nil, cases.ErrTaskNotFound
}

// memoryAudit is an in-memory audit.System for handler tests.
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

func (m *memoryAudit) lastEntry(t *testing.T) audit.Entry {
	t.Helper()
	if len(m.entries) == 0 {
		t.Fatal("no audit entries recorded")
	}
	return m.entries[len(m.entries)-1]
}

// memoryOutbox is an in-memory storage.System capturing uploads.
type memoryOutbox struct {
	blobs map[string]string
}

func newMemoryOutbox() *memoryOutbox {
	return &memoryOutbox{blobs: map[string]string{}}
}

func (m *memoryOutbox) Start(lc *lifecycle.Coordinator) error {
	return nil
}

func (m *memoryOutbox) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return err
	}
	m.blobs[key] = buf.String()
	return nil
}

func (m *memoryOutbox) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	body, ok := m.blobs[key]
	if !ok {
		return nil, io.EOF
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (m *memoryOutbox) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.blobs[key]
	return ok, nil
}

func seedCase(m *memoryCases, status cases.Status, received ...string) cases.Case {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	fields := map[string]cases.FieldValue{}
	for _, name := range received {
		fields[name] = cases.FieldValue{FieldName: name, Value: "seeded", ReceivedAt: now}
	}

	c := cases.Case{
		ID:             "case_1_jane-smith",
		ClientName:     "Jane Smith",
		Title:          "LoA for Jane Smith",
		CaseType:       cases.TypeLoA,
		Status:         status,
		RequiredFields: append([]string{}, cases.DefaultLoARequiredFields...),
		ReceivedFields: fields,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.cases[c.ID] = c
	return c
}

func assertExecuted(t *testing.T, action *actions.Action, wantSuccess bool) {
	t.Helper()

	if action.ExecutedAt == nil {
		t.Fatal("ExecutedAt not stamped")
	}
	if action.Success == nil {
		t.Fatal("Success not stamped")
	}
	if *action.Success != wantSuccess {
		t.Errorf("Success = %v, want %v", *action.Success, wantSuccess)
	}
}
