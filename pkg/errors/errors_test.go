package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "question",
			ID:       "WP038",
		}
		assert.Equal(t, "question with ID WP038 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("question", "PA001")
		wrapped := fmt.Errorf("lookup: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("fields.title", "", "cannot be empty")
		assert.Equal(t, "validation failed for field fields.title: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid profile"}
		assert.Equal(t, "validation failed: invalid profile", err.Error())
	})
}

func TestMalformedIdentifierError(t *testing.T) {
	err := pkgerrors.NewMalformedIdentifierError("bad id")
	assert.Equal(t, `malformed identifier "bad id"`, err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))
	assert.False(t, pkgerrors.IsStoreError(err))

	missing := pkgerrors.NewMalformedIdentifierError("")
	assert.Equal(t, "malformed identifier: id is missing", missing.Error())
}

func TestMissingFieldError(t *testing.T) {
	err := pkgerrors.NewMissingFieldError("WP038", "titel")
	assert.Equal(t, `record WP038: missing required field "titel"`, err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))

	noID := pkgerrors.NewMissingFieldError("", "id")
	assert.Equal(t, `missing required field "id"`, noID.Error())
}

func TestStoreError(t *testing.T) {
	base := errors.New("database is locked")
	err := pkgerrors.NewStoreError("insert", "WP038", base)

	assert.Equal(t, "store insert of WP038 failed: database is locked", err.Error())
	assert.True(t, pkgerrors.IsStoreError(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, pkgerrors.IsValidationError(err))
}

func TestWrapStore(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapStore("find", "X", nil))
	})

	t.Run("not found passes through", func(t *testing.T) {
		nf := pkgerrors.NewNotFoundError("question", "X")
		err := pkgerrors.WrapStore("find", "X", nf)
		assert.Same(t, nf, err)
	})

	t.Run("store errors are not double wrapped", func(t *testing.T) {
		se := pkgerrors.NewStoreError("update", "X", errors.New("boom"))
		err := pkgerrors.WrapStore("update", "X", se)
		assert.Same(t, se, err)
	})

	t.Run("driver errors are wrapped", func(t *testing.T) {
		err := pkgerrors.WrapStore("find", "X", errors.New("boom"))
		var se *pkgerrors.StoreError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "find", se.Operation)
		assert.Equal(t, "X", se.ID)
	})
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"malformed", pkgerrors.NewMalformedIdentifierError("x"), "malformed_identifier"},
		{"missing", fmt.Errorf("derive: %w", pkgerrors.NewMissingFieldError("A001", "typ")), "missing_field"},
		{"store", pkgerrors.NewStoreError("find", "A001", errors.New("x")), "store"},
		{"validation", pkgerrors.NewValidationError("f", nil, "bad"), "validation"},
		{"canceled", pkgerrors.ErrCanceled, "canceled"},
		{"unknown", errors.New("x"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pkgerrors.Kind(tt.err))
		})
	}
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("read", "/tmp/antragsbuch.json", base)

	var ioErr *pkgerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "IO error during read of /tmp/antragsbuch.json: permission denied", err.Error())
	assert.ErrorIs(t, err, base)
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
}

func TestParseError(t *testing.T) {
	base := errors.New("unexpected end of JSON input")
	err := pkgerrors.WrapParse("json", "antragsbuch.json", base)
	assert.Equal(t, "parse error in json file antragsbuch.json: unexpected end of JSON input", err.Error())
	assert.ErrorIs(t, err, base)

	positioned := &pkgerrors.ParseError{Format: "yaml", File: "p.yaml", Line: 3, Column: 2, Message: "bad"}
	assert.Equal(t, "parse error in yaml at p.yaml:3:2: bad", positioned.Error())
}

func TestResourceAndProcessErrors(t *testing.T) {
	base := errors.New("no such host")
	res := pkgerrors.NewResourceError("open", "store", "postgres", base)
	assert.Equal(t, "failed to open store postgres: no such host", res.Error())
	assert.ErrorIs(t, res, base)

	proc := &pkgerrors.ProcessError{Operation: "update", Command: "antragsbuch update", Err: base}
	assert.Equal(t, "process error during update (command: antragsbuch update): no such host", proc.Error())
	assert.ErrorIs(t, proc, base)
}

func TestConfigError(t *testing.T) {
	base := errors.New("unknown driver")
	err := pkgerrors.NewConfigError("database", "driver must be sqlite, postgres or memory", base)
	assert.Equal(t, "configuration error in database: driver must be sqlite, postgres or memory", err.Error())
	assert.ErrorIs(t, err, base)
}
