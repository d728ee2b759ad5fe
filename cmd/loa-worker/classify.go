package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/fieldgate/loa-worker/internal/config"
	"github.com/fieldgate/loa-worker/internal/messages"
)

// runClassify classifies a single ad hoc message. It talks only to
// the model provider; no database connection is required.
func runClassify(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	var (
		text   = fs.String("text", "", "Message text to classify")
		file   = fs.String("file", "", "Read message text from a file")
		source = fs.String("source", "email", "Message source type")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	body := *text
	if body == "" && *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		body = string(data)
	}
	if body == "" {
		return fmt.Errorf("classify: either -text or -file is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	service := buildService(cfg, logger)

	msg := &messages.Message{
		ID:         "adhoc_" + uuid.New().String(),
		Source:     messages.ParseSourceType(*source),
		Content:    &messages.EmailContent{Body: body},
		ReceivedAt: time.Now().UTC(),
		Status:     messages.StatusPending,
		Metadata:   map[string]any{},
	}

	classification, err := service.ClassifyMessage(context.Background(), msg)
	if err != nil {
		return err
	}

	fmt.Printf("category:   %s\n", classification.Category)
	fmt.Printf("confidence: %.2f\n", classification.Confidence)
	fmt.Printf("relevant:   %v\n", classification.Relevant)
	fmt.Printf("reasoning:  %s\n", classification.Reasoning)
	return nil
}
