package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fieldgate/loa-worker/internal/messages"
)

// datasetBaseDate anchors day-numbered records to real timestamps.
var datasetBaseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// record is the raw dataset shape: one JSON object per message with
// day/time scheduling, source-specific content fields, and expected_*
// annotations consumed by scripted runs.
type record struct {
	ID          string `json:"id"`
	SourceType  string `json:"source_type"`
	Day         int    `json:"day"`
	Time        string `json:"time"`
	Description string `json:"description"`

	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`

	ChatMessages []struct {
		Author string `json:"author"`
		Text   string `json:"text"`
	} `json:"chat_messages"`

	TranscriptTurns []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	} `json:"transcript_turns"`

	DocumentTitle string `json:"document_title"`
	DocumentText  string `json:"document_text"`

	ExpectedCategory        string   `json:"expected_category"`
	ExpectedAction          string   `json:"expected_action"`
	ExpectedClientName      string   `json:"expected_client_name"`
	ExpectedCaseTitle       string   `json:"expected_case_title"`
	ExpectedCaseType        string   `json:"expected_case_type"`
	ExpectedRequiredFields  []string `json:"expected_required_fields"`
	ExpectedUpdatedContains []string `json:"expected_updated_contains"`
	ExpectedMissingContains []string `json:"expected_missing_contains"`
	ExpectedTaskTitle       string   `json:"expected_task_title"`
	ExpectedTaskDescription string   `json:"expected_task_description"`
}

// JSONFile is a channel reading a curated message dataset from a
// single JSON file.
type JSONFile struct {
	path      string
	records   []record
	connected bool
	logger    *slog.Logger
}

// NewJSONFile creates a dataset channel for the given file path.
func NewJSONFile(path string, logger *slog.Logger) *JSONFile {
	return &JSONFile{
		path:   path,
		logger: logger.With("system", "channels", "channel", "jsonfile"),
	}
}

func (c *JSONFile) Connect(ctx context.Context) error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	if err := json.Unmarshal(data, &c.records); err != nil {
		return fmt.Errorf("decode dataset: %w", err)
	}

	c.connected = true
	c.logger.Info("dataset loaded", "path", c.path, "records", len(c.records))
	return nil
}

func (c *JSONFile) Disconnect() error {
	c.records = nil
	c.connected = false
	return nil
}

func (c *JSONFile) Messages(opts FetchOptions) iter.Seq2[*messages.Message, error] {
	return func(yield func(*messages.Message, error) bool) {
		if !c.connected {
			yield(nil, ErrNotConnected)
			return
		}

		count := 0
		yielding := opts.Since == ""

		for _, raw := range c.records {
			if opts.Day != 0 && raw.Day != opts.Day {
				continue
			}

			if !yielding {
				if raw.ID == opts.Since {
					yielding = true
				}
				continue
			}

			if opts.Limit > 0 && count >= opts.Limit {
				return
			}

			msg, err := parseRecord(raw)
			if err != nil {
				if !yield(nil, fmt.Errorf("record %s: %w", raw.ID, err)) {
					return
				}
				continue
			}

			if !yield(msg, nil) {
				return
			}
			count++
		}
	}
}

func parseRecord(raw record) (*messages.Message, error) {
	source := messages.ParseSourceType(raw.SourceType)

	var content messages.Content
	switch source {
	case messages.SourceEmail:
		content = &messages.EmailContent{
			From:    raw.FromAddress,
			To:      []string{raw.ToAddress},
			Subject: raw.Subject,
			Body:    raw.Body,
		}
	case messages.SourceChat:
		turns := make([]messages.ChatMessage, len(raw.ChatMessages))
		for i, m := range raw.ChatMessages {
			turns[i] = messages.ChatMessage{Sender: m.Author, Text: m.Text}
		}
		content = &messages.ChatContent{SessionID: raw.ID, Turns: turns}
	case messages.SourceTranscript:
		lines := make([]string, len(raw.TranscriptTurns))
		participants := make([]string, 0, 2)
		seen := map[string]bool{}
		for i, turn := range raw.TranscriptTurns {
			lines[i] = fmt.Sprintf("%s: %s", turn.Speaker, turn.Text)
			if !seen[turn.Speaker] {
				seen[turn.Speaker] = true
				participants = append(participants, turn.Speaker)
			}
		}
		content = &messages.TranscriptContent{
			CallID:       raw.ID,
			Participants: participants,
			Transcript:   strings.Join(lines, "\n"),
		}
	case messages.SourceDocument:
		content = &messages.DocumentContent{
			Filename: raw.DocumentTitle,
			Body:     raw.DocumentText,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, raw.SourceType)
	}

	metadata := map[string]any{
		"description": raw.Description,
		"day":         raw.Day,
	}
	setIfPresent(metadata, "expected_category", raw.ExpectedCategory)
	setIfPresent(metadata, "expected_action", raw.ExpectedAction)
	setIfPresent(metadata, "expected_client_name", raw.ExpectedClientName)
	setIfPresent(metadata, "expected_case_title", raw.ExpectedCaseTitle)
	setIfPresent(metadata, "expected_case_type", raw.ExpectedCaseType)
	if raw.ExpectedRequiredFields != nil {
		metadata["expected_required_fields"] = raw.ExpectedRequiredFields
	}
	if raw.ExpectedUpdatedContains != nil {
		metadata["expected_updated_contains"] = raw.ExpectedUpdatedContains
	}
	if raw.ExpectedMissingContains != nil {
		metadata["expected_missing_contains"] = raw.ExpectedMissingContains
	}
	setIfPresent(metadata, "expected_task_title", raw.ExpectedTaskTitle)
	setIfPresent(metadata, "expected_task_description", raw.ExpectedTaskDescription)

	return &messages.Message{
		ID:         raw.ID,
		Source:     source,
		Content:    content,
		ReceivedAt: recordTimestamp(raw.Day, raw.Time),
		Status:     messages.StatusPending,
		Metadata:   metadata,
	}, nil
}

func setIfPresent(metadata map[string]any, key, value string) {
	if value != "" {
		metadata[key] = value
	}
}

// recordTimestamp converts a dataset day number and HH:MM time into
// a timestamp relative to the dataset base date.
func recordTimestamp(day int, clock string) time.Time {
	if day < 1 {
		day = 1
	}

	ts := datasetBaseDate.AddDate(0, 0, day-1)

	parts := strings.SplitN(clock, ":", 2)
	if len(parts) == 2 {
		hour, errH := strconv.Atoi(parts[0])
		minute, errM := strconv.Atoi(parts[1])
		if errH == nil && errM == nil {
			ts = ts.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
		}
	}

	return ts
}
