// Package overview provides the overview command, which renders the group
// overview page of an Antragsbuch.
package overview

import (
	"bytes"
	"sort"

	"github.com/spf13/cobra"

	"github.com/piratetools42/antragsbuch/internal/cmd/application"
	"github.com/piratetools42/antragsbuch/internal/cmd/output"
	"github.com/piratetools42/antragsbuch/internal/cmd/table"
	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/constants"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/logging"
	"github.com/piratetools42/antragsbuch/pkg/overview"
)

// NewCommand creates the overview command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "overview <antragsbuch.json> [output|-]",
		Short: "Render the group overview of an Antragsbuch",
		Long: `Overview renders a page listing all motion groups and, per group,
all motions linking to their pages on the arguments site.

The page is HTML ready to paste into the site, or Markdown with
--markdown. Without an output location it is written to stdout; with a
location, a table of the listed motions is printed instead.`,
		Example: `  antragsbuch overview antragsbuch.json > overview.html
  antragsbuch overview antragsbuch.json overview.md --markdown`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			logger := logging.Ctx(ctx)

			target := constants.StdioPath
			if len(args) == 2 {
				target = args[1]
			}
			format := overview.FormatHTML
			if markdown {
				format = overview.FormatMarkdown
			}

			profile, err := app.Profile()
			if err != nil {
				return err
			}

			opener := app.Source()
			data, err := opener.ReadAll(ctx, args[0])
			if err != nil {
				return err
			}
			records, err := antrag.DecodeRecords(bytes.NewReader(data))
			if err != nil {
				return errors.WrapParse("json", args[0], err)
			}

			entries, failed := overview.FromRecords(profile, records)
			ids := make([]string, 0, len(failed))
			for id := range failed {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				logger.Warn().
					Err(failed[id]).
					Str("antrag_id", id).
					Msg("Skipping record in overview")
			}

			ov := overview.New(profile.ArgumentsBaseURI, entries)

			if target == constants.StdioPath {
				return ov.Render(cmd.OutOrStdout(), format)
			}

			w, err := opener.Create(ctx, target)
			if err != nil {
				return err
			}
			if err := ov.Render(w, format); err != nil {
				_ = w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return errors.WrapIO("close", target, err)
			}

			tableFormat, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), tableFormat, ov, func(bool) table.Data {
				return table.OverviewToTableData(ov)
			})
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "render Markdown instead of HTML")

	return cmd
}
