package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fieldgate/loa-worker/internal/actions"
	"github.com/fieldgate/loa-worker/internal/cases"
	"github.com/fieldgate/loa-worker/internal/messages"
)

// Scripted is a Service implementation driven by expected_* entries
// in message metadata. It supports replay and regression runs over
// curated datasets without model calls.
type Scripted struct {
	logger *slog.Logger
}

// NewScripted creates the scripted Service implementation.
func NewScripted(logger *slog.Logger) *Scripted {
	return &Scripted{logger: logger.With("system", "llm", "provider", "scripted")}
}

func (s *Scripted) ClassifyMessage(ctx context.Context, msg *messages.Message) (Classification, error) {
	expected, _ := msg.Metadata["expected_category"].(string)
	if expected == "" {
		return Classification{
			Category:   CategoryIrrelevant,
			Confidence: 0.5,
			Reasoning:  "scripted classification: no expected category in metadata",
		}.Normalize(), nil
	}

	category, ok := ParseCategory(expected)
	if !ok {
		return Classification{}, fmt.Errorf("%w: unknown expected category %q", ErrClassification, expected)
	}

	return Classification{
		Category:   category,
		Confidence: 1.0,
		Reasoning:  fmt.Sprintf("scripted classification: message categorized as %s", category),
		Relevant:   category != CategoryIrrelevant,
	}.Normalize(), nil
}

func (s *Scripted) ExtractEntities(ctx context.Context, msg *messages.Message, classification Classification) (ExtractedEntities, error) {
	fieldUpdates := map[string]string{}
	text := strings.ToLower(msg.Content.Text())

	for _, field := range metadataStrings(msg.Metadata, "expected_updated_contains") {
		if strings.Contains(text, strings.ToLower(field)) {
			fieldUpdates[field] = fmt.Sprintf("[extracted from message %s]", msg.ID)
		}
	}

	clientName, _ := msg.Metadata["expected_client_name"].(string)
	caseTitle, _ := msg.Metadata["expected_case_title"].(string)

	return ExtractedEntities{
		ClientName:    clientName,
		CaseTitle:     caseTitle,
		FieldUpdates:  CanonicalizeFieldUpdates(fieldUpdates),
		MissingFields: CanonicalizeFieldNames(metadataStrings(msg.Metadata, "expected_missing_contains")),
		Confidence:    1.0,
	}, nil
}

// legacyActionNames maps retired action identifiers from older
// datasets onto current types.
var legacyActionNames = map[string]string{
	"UPDATE_LOA_CASE": string(actions.TypeUpdateCase),
}

func (s *Scripted) DetermineAction(
	ctx context.Context,
	msg *messages.Message,
	classification Classification,
	entities ExtractedEntities,
	existing *cases.Case,
) (*actions.Action, error) {
	expected, _ := msg.Metadata["expected_action"].(string)
	if expected == "" {
		return DecideAction(msg, classification, entities, existing), nil
	}

	if mapped, ok := legacyActionNames[expected]; ok {
		expected = mapped
	}

	if len(entities.MissingFields) == 0 && existing != nil {
		entities.MissingFields = existing.MissingFields()
	}

	return buildAction(actions.ParseType(expected), msg, classification.Category, entities, existing), nil
}

func (s *Scripted) GenerateFollowupEmail(ctx context.Context, loaCase *cases.Case, missingFields []string) (string, error) {
	fieldsList := make([]string, len(missingFields))
	for i, f := range missingFields {
		fieldsList[i] = "- " + f
	}

	return fmt.Sprintf(
		"Dear Provider,\n\nWe are following up on the Letter of Authority for %s (Case: %s).\n\n"+
			"We are still awaiting the following information:\n%s\n\n"+
			"Please provide these details at your earliest convenience to complete our records.\n\n"+
			"Kind regards,\nLoA Team",
		loaCase.ClientName,
		loaCase.Title,
		strings.Join(fieldsList, "\n"),
	), nil
}

func (s *Scripted) HealthCheck(ctx context.Context) bool {
	return true
}

func metadataStrings(metadata map[string]any, key string) []string {
	switch v := metadata[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
