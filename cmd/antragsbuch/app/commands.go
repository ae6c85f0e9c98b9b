package app

import (
	"github.com/spf13/cobra"

	"github.com/piratetools42/antragsbuch/cmd/antragsbuch/cmd/list"
	"github.com/piratetools42/antragsbuch/cmd/antragsbuch/cmd/overview"
	"github.com/piratetools42/antragsbuch/cmd/antragsbuch/cmd/prepare"
	"github.com/piratetools42/antragsbuch/cmd/antragsbuch/cmd/purge"
	"github.com/piratetools42/antragsbuch/cmd/antragsbuch/cmd/update"
	"github.com/piratetools42/antragsbuch/cmd/antragsbuch/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(withGroup(update.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(prepare.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(overview.NewCommand(a), "core"))

	// Management commands
	rootCmd.AddCommand(withGroup(list.NewCommand(a), "management"))
	rootCmd.AddCommand(withGroup(purge.NewCommand(a), "management"))

	rootCmd.AddCommand(version.NewCommand(a))
}

func withGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.GroupID = group
	return cmd
}
