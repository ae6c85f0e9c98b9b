// Package prepare provides the prepare command, which cleans an Antragsbuch
// export before it is imported.
package prepare

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piratetools42/antragsbuch/internal/cmd/application"
	"github.com/piratetools42/antragsbuch/internal/cmd/output"
	"github.com/piratetools42/antragsbuch/internal/cmd/table"
	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/logging"
	"github.com/piratetools42/antragsbuch/pkg/prepare"
)

// NewCommand creates the prepare command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare <input.json> <output.json|->",
		Short: "Clean an Antragsbuch export before importing it",
		Long: `Prepare rewrites an Antragsbuch export according to the profile:

• Motions listed under "removed" are dropped
• Id prefixes are translated with "code_translation"
• The wiki link is set from "wiki_base_uri"
• With prepare.title_breaks, <br> in titles becomes " - "
• With prepare.strip_tex, \label and \hyperref are removed from texts

Use - as output to write to stdout. The report goes to stderr.`,
		Example: `  antragsbuch prepare export.json antragsbuch.json
  antragsbuch prepare --profile bpt141.yaml export.json - | jq length
  antragsbuch prepare s3://bpt/export.json s3://bpt/antragsbuch.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			ctx = logging.WithOperation(ctx, "prepare")
			input, target := args[0], args[1]

			format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
			if err != nil {
				return err
			}
			profile, err := app.Profile()
			if err != nil {
				return err
			}

			opener := app.Source()
			data, err := opener.ReadAll(ctx, input)
			if err != nil {
				return err
			}
			records, err := antrag.DecodeRecords(bytes.NewReader(data))
			if err != nil {
				return errors.WrapParse("json", input, err)
			}

			prepared, report, err := prepare.FromProfile(profile).Run(ctx, records)
			if err != nil {
				return err
			}

			w, err := opener.Create(ctx, target)
			if err != nil {
				return err
			}
			if err := antrag.EncodeRecords(w, prepared); err != nil {
				_ = w.Close()
				return errors.WrapIO("write", target, err)
			}
			if err := w.Close(); err != nil {
				return errors.WrapIO("close", target, err)
			}

			errOut := cmd.ErrOrStderr()
			if err := output.Render(errOut, format, report, func(bool) table.Data {
				return table.PrepareReportToTableData(report)
			}); err != nil {
				return err
			}
			if len(report.RemovedIDs) > 0 {
				fmt.Fprintf(errOut, "Removed: %s\n", strings.Join(report.RemovedIDs, ", "))
			}
			return nil
		},
	}

	return cmd
}
