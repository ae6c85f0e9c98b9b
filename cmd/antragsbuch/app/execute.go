package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/piratetools42/antragsbuch/internal/cmd/output"
	"github.com/piratetools42/antragsbuch/pkg/logging"
)

// Execute runs the antragsbuch CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	flags := &Config{}

	rootCmd := &cobra.Command{
		Use:     "antragsbuch",
		Short:   "Import motions into the wikiarguments question table",
		Version: a.version,
		Long: `antragsbuch imports the motions of a party conference from an
Antragsbuch JSON export into the question and tag tables of a
wikiarguments installation.

Re-running an import is safe: new motions are inserted, changed motion
texts are updated with a diff, unchanged motions are left alone.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "config file (default is $HOME/.antragsbuch.yaml)")
	pf.StringVar(&flags.ProfilePath, "profile", "", "conference profile YAML (default is the built-in BPT14.1 profile)")
	pf.StringVar(&flags.DBDriver, "db-driver", "", "record store driver: sqlite, postgres, memory")
	pf.StringVar(&flags.DBDSN, "db-dsn", "", "record store DSN or SQLite file path")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "disable colored output")
	pf.StringVarP(&flags.Format, "format", "o", "", "output format: table, json, yaml, wide")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("antragsbuch {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It merges the parsed
// flags into the configuration and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, flags *Config) error {
	if flags.ConfigFile != "" && flags.ConfigFile != a.config.ConfigFile {
		config, err := LoadConfig(flags.ConfigFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(*flags)

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
