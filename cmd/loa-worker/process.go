package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fieldgate/loa-worker/internal/channels"
	"github.com/fieldgate/loa-worker/internal/config"
	"github.com/fieldgate/loa-worker/internal/messages"
	"github.com/fieldgate/loa-worker/internal/pipeline"
)

func runProcess(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	var (
		data     = fs.String("data", "", "Path to a JSON message dataset")
		pdfDir   = fs.String("pdf-dir", "", "Path to a PDF drop folder (alternative to -data)")
		day      = fs.Int("day", 0, "Restrict processing to a single dataset day")
		limit    = fs.Int("limit", 0, "Maximum number of messages to process")
		since    = fs.String("since", "", "Resume after this message id")
		validate = fs.Bool("validate", false, "Validate results against expected metadata")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *data == "" && *pdfDir == "" {
		return fmt.Errorf("process: either -data or -pdf-dir is required")
	}

	rt, err := setup(cfg)
	if err != nil {
		return err
	}
	defer rt.teardown()

	ctx := rt.context()

	var channel channels.Channel
	if *data != "" {
		channel = channels.NewJSONFile(*data, rt.infra.Logger)
	} else {
		channel, err = channels.NewDropFolder(
			&channels.DropFolderConfig{Dir: *pdfDir},
			rt.infra.Logger,
		)
		if err != nil {
			return err
		}
	}

	if err := channel.Connect(ctx); err != nil {
		return err
	}
	defer channel.Disconnect()

	opts := channels.FetchOptions{
		Limit: *limit,
		Since: *since,
		Day:   *day,
	}

	batch := make([]*messages.Message, 0)
	for msg, err := range channel.Messages(opts) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping malformed message: %v\n", err)
			continue
		}
		batch = append(batch, msg)
	}

	if len(batch) == 0 {
		fmt.Println("no messages to process")
		return nil
	}

	result := rt.orchestrator.ProcessBatch(ctx, batch)
	printBatch(result)

	if *validate {
		printValidation(batch, result)
	}

	return nil
}

func printBatch(result *pipeline.BatchResult) {
	fmt.Printf(
		"\n%d messages in %s: %d processed, %d skipped, %d failed (%.1f%% success)\n\n",
		result.TotalMessages,
		result.Elapsed.Round(timeRounding),
		result.Processed,
		result.Skipped,
		result.Failed,
		result.SuccessRate(),
	)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MESSAGE\tSTATUS\tCATEGORY\tACTION\tELAPSED")

	for _, r := range result.Results {
		status := "processed"
		switch {
		case !r.Success:
			status = "failed"
		case r.Skipped():
			status = "skipped"
		}

		category := "-"
		if r.Class != nil {
			category = string(r.Class.Category)
		}

		action := "-"
		if len(r.ActionsTaken) > 0 {
			action = string(r.ActionsTaken[0].Type)
		}

		fmt.Fprintf(
			w, "%s\t%s\t%s\t%s\t%s\n",
			r.MessageID,
			status,
			category,
			action,
			r.Elapsed.Round(timeRounding),
		)
	}

	w.Flush()
}

func printValidation(batch []*messages.Message, result *pipeline.BatchResult) {
	passed := 0
	failed := 0

	fmt.Println("\nvalidation:")
	for i, msg := range batch {
		v := pipeline.ValidateResult(msg, result.Results[i])
		if v.Passed {
			passed++
			continue
		}

		failed++
		for _, detail := range v.Errors {
			fmt.Printf("  %s: %s\n", v.MessageID, detail)
		}
	}

	fmt.Printf("%d passed, %d failed\n", passed, failed)
}
