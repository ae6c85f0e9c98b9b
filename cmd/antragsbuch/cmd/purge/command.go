// Package purge provides the purge command, which empties the question store.
package purge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piratetools42/antragsbuch/internal/cmd/application"
	"github.com/piratetools42/antragsbuch/internal/cmd/prompt"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/logging"
)

// NewCommand creates the purge command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var autoApprove bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all questions and tags",
		Long: `Purge deletes every question and every tag from the store.
Use it to start a conference import from scratch.`,
		Example: `  antragsbuch purge      # Ask first
  antragsbuch purge -y   # Delete without asking`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			logger := logging.Ctx(ctx)

			if !autoApprove {
				ok, err := prompt.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt.ConfirmPurge)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "Purge canceled, nothing was deleted.")
					return nil
				}
			}

			st, err := app.Store(ctx)
			if err != nil {
				return err
			}
			count, err := st.Count(ctx)
			if err != nil {
				return errors.WrapStore("count", "", err)
			}
			if err := st.Purge(ctx); err != nil {
				return errors.WrapStore("purge", "", err)
			}

			logger.Info().Int("questions", count).Msg("Store purged")
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d questions and their tags.\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&autoApprove, "yes", "y", false, "delete without asking")

	return cmd
}
