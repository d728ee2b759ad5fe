package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fieldgate/loa-worker/internal/audit"
	"github.com/fieldgate/loa-worker/internal/config"
)

func runAudit(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	var (
		caseID = fs.String("case", "", "Show the audit trail for a case")
		failed = fs.Bool("failed", false, "Show only failed entries")
		limit  = fs.Int("limit", 25, "Maximum number of entries to list")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := setup(cfg)
	if err != nil {
		return err
	}
	defer rt.teardown()

	ctx := rt.context()

	var entries []audit.Entry
	switch {
	case *caseID != "":
		entries, err = rt.audit.TrailForCase(ctx, *caseID)
	case *failed:
		entries, err = rt.audit.Failed(ctx, *limit)
	default:
		entries, err = rt.audit.Recent(ctx, *limit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("no audit entries found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tCASE\tACTION\tOK\tTRIGGERED BY\tERROR")

	for _, e := range entries {
		ok := "yes"
		if !e.Success {
			ok = "no"
		}

		fmt.Fprintf(
			w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format(time.RFC3339),
			e.CaseID,
			e.ActionType,
			ok,
			e.TriggeredBy,
			truncate(e.ErrorMessage, 48),
		)
	}

	return w.Flush()
}
