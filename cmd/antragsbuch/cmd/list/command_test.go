package list

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piratetools42/antragsbuch/internal/cmd/application"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/store"
	"github.com/piratetools42/antragsbuch/pkg/store/memory"
	"github.com/piratetools42/antragsbuch/pkg/store/storetest"
)

func execute(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	require.NoError(t, st.Insert(ctx, storetest.NewQuestion("WP038", "<p>Wahlprogramm</p>"), []string{"WP038", "Umwelt"}))
	require.NoError(t, st.Insert(ctx, storetest.NewQuestion("PA001", "<p>Satzung</p>"), []string{"PA001"}))

	app := &application.Mock{
		StoreFunc:        func(context.Context) (store.Store, error) { return st, nil },
		OutputFormatFunc: func() string { return format },
	}
	var stdout bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

func TestListAll(t *testing.T) {
	out, err := execute(t, "table")
	require.NoError(t, err)
	assert.Contains(t, out, "WP038")
	assert.Contains(t, out, "PA001")
	assert.Less(t, bytes.Index([]byte(out), []byte("PA001")), bytes.Index([]byte(out), []byte("WP038")))
}

func TestListOneAsJSON(t *testing.T) {
	out, err := execute(t, "json", "WP038")
	require.NoError(t, err)
	assert.Contains(t, out, `"url": "WP038"`)
	assert.Contains(t, out, `"tags": [`)
	assert.Contains(t, out, `"Umwelt"`)
	assert.Contains(t, out, `"details": "<p>Wahlprogramm</p>"`)
}

func TestListOneAsTable(t *testing.T) {
	out, err := execute(t, "table", "WP038")
	require.NoError(t, err)
	assert.Contains(t, out, "WP038, Umwelt")
}

func TestListUnknownID(t *testing.T) {
	_, err := execute(t, "table", "XX999")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestListRejectsBadFormat(t *testing.T) {
	_, err := execute(t, "csv")
	assert.Error(t, err)
}

func TestListMatch(t *testing.T) {
	out, err := execute(t, "json", "--match", "WP*")
	require.NoError(t, err)
	assert.Contains(t, out, `"url": "WP038"`)
	assert.NotContains(t, out, "PA001")

	out, err = execute(t, "json", "--match", "^PA\\d+$", "--match", "XX*")
	require.NoError(t, err)
	assert.Contains(t, out, `"url": "PA001"`)
	assert.NotContains(t, out, "WP038")

	_, err = execute(t, "json", "--match", "(broken")
	assert.Error(t, err)
}
