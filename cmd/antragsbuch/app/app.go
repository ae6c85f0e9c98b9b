// Package app provides the application context and dependency management
// for the antragsbuch CLI: configuration, logging, the conference profile and
// the lazily opened record store.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/piratetools42/antragsbuch/internal/cmd/application"
	"github.com/piratetools42/antragsbuch/internal/source"
	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/store"
)

// App represents the antragsbuch application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazily initialized, guarded by mu
	mu      sync.RWMutex
	store   store.Store
	profile *antrag.Profile
	opener  *source.Opener
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Store returns the record store, opening it lazily.
// This is thread-safe and ensures only one handle is opened.
func (a *App) Store(ctx context.Context) (store.Store, error) {
	a.mu.RLock()
	if a.store != nil {
		st := a.store
		a.mu.RUnlock()
		return st, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.store != nil {
		return a.store, nil
	}

	st, err := openStore(ctx, a.config)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("driver", a.config.DBDriver).
		Msg("Store opened")

	a.store = st
	return st, nil
}

// Profile returns the conference profile, loading it on first use.
func (a *App) Profile() (*antrag.Profile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.profile != nil {
		return a.profile, nil
	}

	profile := antrag.DefaultProfile()
	if a.config.ProfilePath != "" {
		loaded, err := antrag.LoadProfile(a.config.ProfilePath)
		if err != nil {
			return nil, errors.WrapResource("load", "profile", a.config.ProfilePath, err)
		}
		profile = loaded
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	a.profile = profile
	return profile, nil
}

// Source returns the opener for input and output locations.
func (a *App) Source() *source.Opener {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.opener == nil {
		a.opener = source.New()
	}
	return a.opener
}

// Shutdown closes the store if it was opened.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	st := a.store
	a.store = nil
	a.mu.Unlock()

	if st == nil {
		return nil
	}
	if err := st.Close(); err != nil {
		return errors.WrapResource("close", "store", "", err)
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithStore sets a custom store instance (useful for testing).
func WithStore(st store.Store) Option {
	return func(a *App) error {
		a.store = st
		return nil
	}
}

// WithProfile sets the conference profile instead of loading it.
func WithProfile(profile *antrag.Profile) Option {
	return func(a *App) error {
		if err := profile.Validate(); err != nil {
			return err
		}
		a.profile = profile
		return nil
	}
}

// WithSource sets the opener for input and output locations.
func WithSource(opener *source.Opener) Option {
	return func(a *App) error {
		a.opener = opener
		return nil
	}
}
