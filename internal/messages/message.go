// Package messages implements the inbound message domain.
// It provides types for messages arriving from ingestion channels
// in multiple source formats, with uniform text extraction for
// downstream classification and entity extraction.
package messages

import (
	"fmt"
	"strings"
	"time"
)

// SourceType identifies the originating format of a message.
type SourceType string

const (
	SourceEmail      SourceType = "email"
	SourceChat       SourceType = "chat"
	SourceTranscript SourceType = "call_transcript"
	SourceDocument   SourceType = "document"
	SourceUnknown    SourceType = "unknown"
)

// ParseSourceType converts a string to a SourceType, folding dataset
// synonyms. Unrecognized values map to SourceUnknown.
func ParseSourceType(s string) SourceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SourceEmail):
		return SourceEmail
	case string(SourceChat), "teams":
		return SourceChat
	case string(SourceTranscript), "transcript":
		return SourceTranscript
	case string(SourceDocument):
		return SourceDocument
	default:
		return SourceUnknown
	}
}

// ProcessingStatus tracks where a message is in the pipeline.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "PENDING"
	StatusProcessing ProcessingStatus = "PROCESSING"
	StatusProcessed  ProcessingStatus = "PROCESSED"
	StatusFailed     ProcessingStatus = "FAILED"
	StatusSkipped    ProcessingStatus = "SKIPPED"
)

// Content is implemented by each source-specific message body.
// Text returns the full textual content used for classification
// and extraction.
type Content interface {
	Text() string
}

// Sender is implemented by content types that carry an
// originating address, used by pre-filter whitelist and
// blacklist checks.
type Sender interface {
	SenderAddress() string
}

// Message is a single inbound communication from any channel.
// Metadata carries channel-specific annotations; scripted agent
// runs also read expected_* hints from it.
type Message struct {
	ID         string           `json:"id"`
	Source     SourceType       `json:"source"`
	Content    Content          `json:"content"`
	ReceivedAt time.Time        `json:"received_at"`
	Status     ProcessingStatus `json:"status"`
	Metadata   map[string]any   `json:"metadata,omitempty"`
}

// Attachment describes a file attached to an email message.
// Data may be nil when only metadata was captured at ingestion.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Data        []byte `json:"-"`
}

// EmailContent is the body of an email message.
type EmailContent struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	CC          []string     `json:"cc,omitempty"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

func (c *EmailContent) Text() string {
	var b strings.Builder
	if c.Subject != "" {
		b.WriteString("Subject: ")
		b.WriteString(c.Subject)
		b.WriteString("\n\n")
	}
	b.WriteString(c.Body)
	return b.String()
}

func (c *EmailContent) SenderAddress() string {
	return c.From
}

// ChatContent is the body of a chat session, preserving turn order.
type ChatContent struct {
	SessionID string        `json:"session_id"`
	Turns     []ChatMessage `json:"turns"`
}

// ChatMessage is a single turn within a chat session.
type ChatMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *ChatContent) Text() string {
	lines := make([]string, 0, len(c.Turns))
	for _, turn := range c.Turns {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Sender, turn.Text))
	}
	return strings.Join(lines, "\n")
}

// TranscriptContent is the body of a call transcript.
type TranscriptContent struct {
	CallID       string   `json:"call_id"`
	Participants []string `json:"participants,omitempty"`
	Transcript   string   `json:"transcript"`
	DurationSecs int      `json:"duration_secs,omitempty"`
}

func (c *TranscriptContent) Text() string {
	return c.Transcript
}

// DocumentContent is the body of a standalone document, such as a
// scanned form or PDF picked up from a drop folder.
type DocumentContent struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	ExtractedAt string `json:"extracted_at,omitempty"`
	Body        string `json:"body"`
	PageCount   *int   `json:"page_count,omitempty"`
}

func (c *DocumentContent) Text() string {
	return c.Body
}
