// Package application provides the application interface for antragsbuch commands.
//
// Commands accept this interface rather than the concrete App type so they can
// be tested with Mock and an in-memory store.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            st, err := app.Store(cmd.Context())
//	            if err != nil {
//	                return err
//	            }
//	            // ... use st
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/piratetools42/antragsbuch/internal/source"
	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/store"
)

// Application provides what commands need from the application.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Store returns the record store, opening it on first use.
	// The application closes it on shutdown.
	Store(ctx context.Context) (store.Store, error)

	// Profile returns the conference profile, validated.
	Profile() (*antrag.Profile, error)

	// Source returns the opener for input and output locations.
	Source() *source.Opener

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
