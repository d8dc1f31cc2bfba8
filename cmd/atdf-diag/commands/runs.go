package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/chipdesc/atdf-go/pkg/store"
)

// RunRuns lists stored extraction runs, or the fields of one run when runID
// is set.
func RunRuns(dbPath, runID string, limit int, w io.Writer) error {
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if runID != "" {
		return showRun(db, runID, w)
	}

	runs, err := db.ListRuns(limit, 0)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tPOLICY\tINPUTS\tFIELDS\tWARNINGS\tERRORS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			shortenSessionID(r.ID), r.StartedAt.UTC().Format(time.RFC3339),
			r.Status, r.Policy, r.Inputs, r.Fields, r.Warnings, r.Errors)
	}
	return tw.Flush()
}

func showRun(db *store.Store, id string, w io.Writer) error {
	run, err := db.GetRun(id)
	if err != nil {
		return fmt.Errorf("failed to read run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run %s not found", id)
	}

	fmt.Fprintf(w, "Run:      %s\n", run.ID)
	fmt.Fprintf(w, "Status:   %s\n", run.Status)
	fmt.Fprintf(w, "Policy:   %s\n", run.Policy)
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.UTC().Format(time.RFC3339))
	if run.CompletedAt != nil {
		fmt.Fprintf(w, "Duration: %s\n", run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	if run.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:    %s\n", run.ErrorMessage)
	}

	records, err := db.RunRecords(id)
	if err != nil {
		return fmt.Errorf("failed to read fields: %w", err)
	}
	fmt.Fprintf(w, "\nFields (%d):\n", len(records))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  SOURCE\tREGISTER\tFIELD\tBITS\tACCESS\tRESTRICTION")
	for _, r := range records {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			r.Source, r.Register, r.Field.Name, r.Field.Range, r.Field.Access, r.Field.Restriction)
	}
	return tw.Flush()
}
