// Package update provides the update command implementation.
package update

import (
	"github.com/spf13/cobra"

	"github.com/piratetools42/antragsbuch/internal/cmd/application"
)

// Flags holds the update specific flags.
type Flags struct {
	DryRun         bool
	AutoApprove    bool
	Overview       string
	OverviewFormat string
	Unified        bool
	Context        int
}

// NewCommand creates the update command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:   "update <antragsbuch.json> [agenda.txt]",
		Short: "Import motions into the question store",
		Args:  cobra.RangeArgs(1, 2),
		Long: `Update reads an Antragsbuch JSON export and reconciles every motion
with the question store:

• New motions are inserted together with their search tags
• Motions whose rendered text changed get their details replaced
• Unchanged motions are left alone

The optional agenda file lists one motion id per line (text after the
first space is ignored). Motions on the agenda are tagged TO<position>,
all others get the unscheduled tag.

Without --dry-run or -y the command asks before writing; answering
anything but yes runs a dry run that only shows what would change.`,
		Example: `  antragsbuch update antragsbuch.json                   # Ask, then import
  antragsbuch update antragsbuch.json to.txt -y         # Import with agenda positions
  antragsbuch update antragsbuch.json --dry-run         # Preview changes
  antragsbuch update antragsbuch.json --dry-run --unified
  antragsbuch update s3://bpt/antragsbuch.json -o json  # Read from S3, JSON result
  antragsbuch update antragsbuch.json -y --overview overview.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd, app, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "show changes without writing")
	cmd.Flags().BoolVarP(&flags.AutoApprove, "yes", "y", false, "write without asking")
	cmd.Flags().StringVar(&flags.Overview, "overview", "", "also write a group overview to this location (- for stdout)")
	cmd.Flags().StringVar(&flags.OverviewFormat, "overview-format", "html", "overview format: html, markdown")
	cmd.Flags().BoolVar(&flags.Unified, "unified", false, "print detail changes as unified diffs")
	cmd.Flags().IntVar(&flags.Context, "context", -1, "unchanged lines kept around each change (-1 keeps all)")

	return cmd
}
