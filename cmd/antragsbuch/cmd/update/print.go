package update

import (
	"fmt"
	"io"

	"github.com/piratetools42/antragsbuch/pkg/reconciler"
)

// printDiffs writes the detail diff of every changed record in input order.
func printDiffs(w io.Writer, result *reconciler.Result, unified bool) error {
	for _, o := range result.Outcomes {
		if o.Kind != reconciler.OutcomeUpdated || o.Diff == nil {
			continue
		}
		if unified {
			text, err := o.Diff.Unified("stored/"+o.ID, "antragsbuch/"+o.ID)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "\n%s", text); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "\n=== %s ===\n%s\n", o.ID, o.Diff.String()); err != nil {
			return err
		}
	}
	return nil
}

// printSummary writes the one line summary and the failure reasons.
func printSummary(w io.Writer, result *reconciler.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, result.Summary())

	messages := result.FailureMessages()
	for _, id := range result.FailedIDs() {
		fmt.Fprintf(w, "  %s: %s\n", id, messages[id])
	}
}
