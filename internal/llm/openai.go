package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/fieldgate/loa-worker/internal/actions"
	"github.com/fieldgate/loa-worker/internal/cases"
	"github.com/fieldgate/loa-worker/internal/messages"
	"github.com/fieldgate/loa-worker/pkg/formatting"
)

// Retry policy per call kind. The pipeline core only observes
// success or a raised error; retries stay inside this boundary.
const (
	classifyTries   = 3
	classifyTimeout = 60 * time.Second
	extractTries    = 3
	extractTimeout  = 90 * time.Second
	emailTries      = 2
	emailTimeout    = 45 * time.Second
	healthTimeout   = 10 * time.Second

	maxReasoningLength = 200
)

type client struct {
	api         openai.Client
	model       string
	temperature float64
	logger      *slog.Logger
}

// NewClient creates the OpenAI-compatible Service implementation.
// BaseURL may point at any compatible endpoint.
func NewClient(cfg *Config, logger *slog.Logger) Service {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger.With("system", "llm"),
	}
}

type rawClassification struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	IsRelevant bool    `json:"is_relevant"`
}

func (c *client) ClassifyMessage(ctx context.Context, msg *messages.Message) (Classification, error) {
	text := strings.TrimSpace(msg.Content.Text())
	if text == "" {
		return Classification{
			Category:   CategoryIrrelevant,
			Confidence: 1.0,
			Reasoning:  "Empty message content",
		}.Normalize(), nil
	}

	response, err := c.generate(ctx, classifySystemPrompt(), classifyUserPrompt(text), classifyTries, classifyTimeout)
	if err != nil {
		c.logger.Warn("classification call failed, using heuristic", "message_id", msg.ID, "error", err)
		return HeuristicClassification(text, fmt.Sprintf("model error: %v", err)), nil
	}

	raw, err := formatting.Parse[json.RawMessage](response)
	if err != nil {
		return HeuristicClassification(text, "unable to parse model response"), nil
	}
	if err := validateSchema(classificationSchema, raw); err != nil {
		c.logger.Warn("classification response failed schema validation", "message_id", msg.ID, "error", err)
		return HeuristicClassification(text, "unable to parse model response"), nil
	}

	var parsed rawClassification
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return HeuristicClassification(text, "unable to parse model response"), nil
	}

	category, ok := ParseCategory(parsed.Category)
	if !ok {
		return HeuristicClassification(text, "unable to parse model response"), nil
	}

	reasoning := strings.TrimSpace(parsed.Reasoning)
	if reasoning == "" {
		reasoning = "No reasoning provided"
	}
	if len(reasoning) > maxReasoningLength {
		reasoning = reasoning[:maxReasoningLength]
	}

	return Classification{
		Category:   category,
		Confidence: parsed.Confidence,
		Reasoning:  reasoning,
		Relevant:   parsed.IsRelevant,
	}.Normalize(), nil
}

type rawExtraction struct {
	ClientName    *string        `json:"client_name"`
	CaseTitle     *string        `json:"case_title"`
	FieldUpdates  map[string]any `json:"field_updates"`
	MissingFields []string       `json:"missing_fields"`
	Confidence    *float64       `json:"confidence"`
	Context       map[string]any `json:"additional_context"`
}

func (c *client) ExtractEntities(ctx context.Context, msg *messages.Message, classification Classification) (ExtractedEntities, error) {
	empty := ExtractedEntities{
		FieldUpdates:  map[string]string{},
		MissingFields: []string{},
	}

	text := strings.TrimSpace(msg.Content.Text())
	if text == "" {
		return empty, nil
	}

	response, err := c.generate(
		ctx,
		extractSystemPrompt(),
		extractUserPrompt(classification.Category, text),
		extractTries,
		extractTimeout,
	)
	if err != nil {
		c.logger.Warn("extraction call failed", "message_id", msg.ID, "error", err)
		return empty, nil
	}

	raw, err := formatting.Parse[json.RawMessage](response)
	if err != nil {
		return empty, nil
	}
	if err := validateSchema(extractionSchema, raw); err != nil {
		c.logger.Warn("extraction response failed schema validation", "message_id", msg.ID, "error", err)
		return empty, nil
	}

	var parsed rawExtraction
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return empty, nil
	}

	fieldUpdates := make(map[string]string, len(parsed.FieldUpdates))
	for k, v := range parsed.FieldUpdates {
		fieldUpdates[k] = strings.TrimSpace(fmt.Sprint(v))
	}

	confidence := 0.7
	if parsed.Confidence != nil {
		confidence = clamp(*parsed.Confidence)
	}

	return ExtractedEntities{
		ClientName:    optionalString(parsed.ClientName),
		CaseTitle:     optionalString(parsed.CaseTitle),
		FieldUpdates:  CanonicalizeFieldUpdates(fieldUpdates),
		MissingFields: CanonicalizeFieldNames(parsed.MissingFields),
		Confidence:    confidence,
		Context:       parsed.Context,
	}, nil
}

func (c *client) DetermineAction(
	ctx context.Context,
	msg *messages.Message,
	classification Classification,
	entities ExtractedEntities,
	existing *cases.Case,
) (*actions.Action, error) {
	return DecideAction(msg, classification, entities, existing), nil
}

func (c *client) GenerateFollowupEmail(ctx context.Context, loaCase *cases.Case, missingFields []string) (string, error) {
	response, err := c.generate(
		ctx,
		emailSystemPrompt(),
		emailUserPrompt(loaCase.ClientName, loaCase.Title, missingFields),
		emailTries,
		emailTimeout,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	email := strings.TrimSpace(response)
	if email == "" {
		return "", fmt.Errorf("%w: %w", ErrGeneration, ErrEmptyResponse)
	}
	return email, nil
}

func (c *client) HealthCheck(ctx context.Context) bool {
	response, err := c.generate(ctx, "You answer with a single word: pong.", "ping", 1, healthTimeout)
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) != ""
}

// generate runs a chat completion with per-attempt timeouts,
// retrying on transport errors and empty responses.
func (c *client) generate(ctx context.Context, system, user string, tries int, timeout time.Duration) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= tries; attempt++ {
		content, err := c.complete(ctx, system, user, timeout)
		if err == nil {
			return content, nil
		}

		lastErr = err
		c.logger.Debug("completion attempt failed", "attempt", attempt, "error", err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", lastErr
}

func (c *client) complete(ctx context.Context, system, user string, timeout time.Duration) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.api.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
