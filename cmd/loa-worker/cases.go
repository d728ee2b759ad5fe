package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fieldgate/loa-worker/internal/cases"
	"github.com/fieldgate/loa-worker/internal/config"
)

const timeRounding = time.Millisecond

func runCases(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cases", flag.ExitOnError)
	var (
		status   = fs.String("status", "", "Filter by case status")
		caseType = fs.String("type", "", "Filter by case type")
		client   = fs.String("client", "", "Filter by client name (contains)")
		limit    = fs.Int("limit", 50, "Maximum number of cases to list")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := setup(cfg)
	if err != nil {
		return err
	}
	defer rt.teardown()

	var filters cases.Filters
	if *status != "" {
		filters.Status = status
	}
	if *caseType != "" {
		filters.CaseType = caseType
	}
	if *client != "" {
		filters.ClientName = client
	}

	list, err := rt.cases.List(rt.context(), filters, *limit)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("no cases found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLIENT\tTITLE\tTYPE\tSTATUS\tCOMPLETE\tUPDATED")

	for _, c := range list {
		fmt.Fprintf(
			w, "%s\t%s\t%s\t%s\t%s\t%.0f%%\t%s\n",
			c.ID,
			truncate(c.ClientName, 24),
			truncate(c.Title, 32),
			c.CaseType,
			c.Status,
			c.CompletionPercentage(),
			c.UpdatedAt.Format(time.RFC3339),
		)
	}

	return w.Flush()
}
