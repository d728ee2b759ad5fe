package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fieldgate/loa-worker/internal/actions"
	"github.com/fieldgate/loa-worker/internal/cases"
	"github.com/fieldgate/loa-worker/internal/llm"
	"github.com/fieldgate/loa-worker/internal/messages"
)

// Orchestrator coordinates the per-message pipeline: pre-filter,
// classify, extract, case-match, decide, route, finalize. Batches
// run strictly sequentially so a later message observes the case
// mutations of an earlier one.
type Orchestrator struct {
	service llm.Service
	cases   cases.System
	router  *actions.Router
	filter  *PreFilter
	logger  *slog.Logger
}

// NewOrchestrator wires the pipeline's collaborators. A nil filter
// gets the default pre-filter.
func NewOrchestrator(
	service llm.Service,
	caseSystem cases.System,
	router *actions.Router,
	filter *PreFilter,
	logger *slog.Logger,
) *Orchestrator {
	if filter == nil {
		filter = NewPreFilter(nil)
	}

	return &Orchestrator{
		service: service,
		cases:   caseSystem,
		router:  router,
		filter:  filter,
		logger:  logger.With("system", "pipeline"),
	}
}

// ProcessMessage runs one message through the pipeline. Any stage
// failure is downgraded to a failed Result; the error never
// propagates to the caller.
func (o *Orchestrator) ProcessMessage(ctx context.Context, msg *messages.Message) *Result {
	start := time.Now()
	msg.Status = messages.StatusProcessing

	result, err := o.process(ctx, msg, start)
	if err != nil {
		o.logger.Error("message processing failed", "message_id", msg.ID, "error", err)
		msg.Status = messages.StatusFailed

		return &Result{
			MessageID:    msg.ID,
			Success:      false,
			ErrorMessage: err.Error(),
			Elapsed:      time.Since(start),
		}
	}

	if result.Skipped() {
		msg.Status = messages.StatusSkipped
	} else {
		msg.Status = messages.StatusProcessed
	}

	return result
}

func (o *Orchestrator) process(ctx context.Context, msg *messages.Message, start time.Time) (*Result, error) {
	if !o.filter.ShouldProcess(msg) {
		o.logger.Debug("message rejected by pre-filter", "message_id", msg.ID)

		classification := llm.Classification{
			Category:   llm.CategoryIrrelevant,
			Confidence: 1.0,
			Reasoning:  "Filtered out by pre-filter (spam/marketing)",
		}.Normalize()

		return &Result{
			MessageID: msg.ID,
			Success:   true,
			Class:     &classification,
			Elapsed:   time.Since(start),
		}, nil
	}

	classification, err := o.service.ClassifyMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	if !classification.Relevant {
		o.logger.Debug(
			"message not relevant",
			"message_id", msg.ID,
			"category", classification.Category,
		)

		return &Result{
			MessageID: msg.ID,
			Success:   true,
			Class:     &classification,
			Elapsed:   time.Since(start),
		}, nil
	}

	entities, err := o.service.ExtractEntities(ctx, msg, classification)
	if err != nil {
		return nil, err
	}

	existing, err := o.matchCase(ctx, entities)
	if err != nil {
		return nil, err
	}

	action, err := o.service.DetermineAction(ctx, msg, classification, entities, existing)
	if err != nil {
		return nil, err
	}

	if existing != nil && action.CaseID == "" {
		action.CaseID = existing.ID
	}

	taken := make([]*actions.Action, 0, 1)
	if action.Type != actions.TypeIgnore {
		if err := o.router.Route(ctx, action); err != nil {
			return nil, err
		}
		taken = append(taken, action)
	}

	return &Result{
		MessageID:    msg.ID,
		Success:      true,
		Class:        &classification,
		Entities:     &entities,
		ActionsTaken: taken,
		Elapsed:      time.Since(start),
	}, nil
}

// matchCase looks up a non-terminal case for the extracted client.
// At most one case is used; the repository orders candidates most
// recently updated first so the tie-break is deterministic.
func (o *Orchestrator) matchCase(ctx context.Context, entities llm.ExtractedEntities) (*cases.Case, error) {
	if entities.ClientName == "" {
		return nil, nil
	}

	match, err := o.cases.FindByClientAndTitle(ctx, entities.ClientName, entities.CaseTitle)
	if err != nil {
		if errors.Is(err, cases.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return match, nil
}

// ProcessBatch runs messages in input order, isolating per-message
// failures.
func (o *Orchestrator) ProcessBatch(ctx context.Context, batch []*messages.Message) *BatchResult {
	start := time.Now()

	result := &BatchResult{
		TotalMessages: len(batch),
		Results:       make([]*Result, 0, len(batch)),
	}

	for _, msg := range batch {
		r := o.ProcessMessage(ctx, msg)
		result.Results = append(result.Results, r)

		switch {
		case !r.Success:
			result.Failed++
		case r.Skipped():
			result.Skipped++
		default:
			result.Processed++
		}
	}

	result.Elapsed = time.Since(start)

	o.logger.Info(
		"batch complete",
		"total", result.TotalMessages,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"success_rate", result.SuccessRate(),
		"elapsed", result.Elapsed,
	)

	return result
}
