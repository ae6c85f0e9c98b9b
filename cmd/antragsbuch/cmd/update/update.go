package update

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/piratetools42/antragsbuch/internal/cmd/application"
	"github.com/piratetools42/antragsbuch/internal/cmd/output"
	"github.com/piratetools42/antragsbuch/internal/cmd/prompt"
	"github.com/piratetools42/antragsbuch/internal/cmd/table"
	"github.com/piratetools42/antragsbuch/internal/source"
	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/differ"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/logging"
	"github.com/piratetools42/antragsbuch/pkg/overview"
	"github.com/piratetools42/antragsbuch/pkg/reconciler"
)

// Execute runs one import. Record level failures are part of the result;
// only setup errors and cancellation are returned.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags, args []string) error {
	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	ctx = logging.WithOperation(ctx, "update")

	overviewFormat, err := overview.ParseFormat(flags.OverviewFormat)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
	if err != nil {
		return err
	}

	profile, err := app.Profile()
	if err != nil {
		return err
	}

	opener := app.Source()
	records, err := readRecords(ctx, opener, args[0])
	if err != nil {
		return err
	}

	var agenda antrag.AgendaOrder
	if len(args) == 2 {
		if agenda, err = readAgenda(ctx, opener, args[1]); err != nil {
			return err
		}
	}

	dryRun := flags.DryRun
	if !dryRun && !flags.AutoApprove {
		ok, err := prompt.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt.ConfirmUpdate)
		if err != nil {
			return err
		}
		dryRun = !ok
	}

	st, err := app.Store(ctx)
	if err != nil {
		return err
	}

	r, err := reconciler.New(st,
		reconciler.WithProfile(profile),
		reconciler.WithAgendaOrder(agenda),
		reconciler.WithDryRun(dryRun),
		reconciler.WithDiffer(differ.New(differ.WithContext(flags.Context))),
	)
	if err != nil {
		return err
	}

	result, runErr := r.Records(logging.WithDryRun(ctx, dryRun), records)
	if result == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	if err := output.Render(out, format, result, func(wide bool) table.Data {
		return table.ResultToTableData(result, wide)
	}); err != nil {
		return err
	}
	if format.IsTable() {
		if err := printDiffs(out, result, flags.Unified); err != nil {
			return err
		}
	}
	printSummary(cmd.ErrOrStderr(), result)

	if flags.Overview != "" {
		if err := writeOverview(ctx, opener, flags.Overview, overviewFormat, profile, result); err != nil {
			return err
		}
	}

	return runErr
}

func readRecords(ctx context.Context, opener *source.Opener, location string) ([]antrag.SourceRecord, error) {
	data, err := opener.ReadAll(ctx, location)
	if err != nil {
		return nil, err
	}
	records, err := antrag.DecodeRecords(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WrapParse("json", location, err)
	}
	logging.Ctx(ctx).Debug().
		Str("source", location).
		Int("records", len(records)).
		Msg("Read Antragsbuch")
	return records, nil
}

func readAgenda(ctx context.Context, opener *source.Opener, location string) (antrag.AgendaOrder, error) {
	rc, err := opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	agenda, err := antrag.ReadAgendaOrder(rc)
	if err != nil {
		return nil, errors.WrapParse("text", location, err)
	}
	return agenda, nil
}

// writeOverview renders the records that were not rejected.
func writeOverview(ctx context.Context, opener *source.Opener, location string, format overview.Format, profile *antrag.Profile, result *reconciler.Result) error {
	entries := make([]overview.Entry, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		if o.Kind == reconciler.OutcomeFailed {
			continue
		}
		entries = append(entries, overview.Entry{ID: o.ID, Title: o.Title, Group: o.Group})
	}

	w, err := opener.Create(ctx, location)
	if err != nil {
		return err
	}
	if err := overview.New(profile.ArgumentsBaseURI, entries).Render(w, format); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return errors.WrapIO("close", location, err)
	}

	logging.Ctx(ctx).Info().
		Str("output", location).
		Int("records", len(entries)).
		Msg("Wrote overview")
	return nil
}
