package application

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/piratetools42/antragsbuch/internal/source"
	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/store"
	"github.com/piratetools42/antragsbuch/pkg/store/memory"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value: a shared
// in-memory store, the default profile and a no-op logger.
//
// Example Usage:
//
//	st := memory.New()
//	mock := &application.Mock{
//	    StoreFunc: func(context.Context) (store.Store, error) { return st, nil },
//	}
//	cmd := list.NewCommand(mock)
//	// ... test command
type Mock struct {
	StoreFunc        func(ctx context.Context) (store.Store, error)
	ProfileFunc      func() (*antrag.Profile, error)
	SourceFunc       func() *source.Opener
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string

	once  sync.Once
	store *memory.Store
}

// Store returns a store using the mock function or a shared memory store.
func (m *Mock) Store(ctx context.Context) (store.Store, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx)
	}
	m.once.Do(func() { m.store = memory.New() })
	return m.store, nil
}

// Profile returns a profile using the mock function or the default profile.
func (m *Mock) Profile() (*antrag.Profile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc()
	}
	return antrag.DefaultProfile(), nil
}

// Source returns an opener using the mock function or a default opener.
func (m *Mock) Source() *source.Opener {
	if m.SourceFunc != nil {
		return m.SourceFunc()
	}
	return source.New()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
