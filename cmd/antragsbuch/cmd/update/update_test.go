package update

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piratetools42/antragsbuch/internal/cmd/application"
	"github.com/piratetools42/antragsbuch/pkg/store"
	"github.com/piratetools42/antragsbuch/pkg/store/memory"
)

const antragsbuch = `[
  {"id": "WP038", "titel": "Wahlprogramm", "gruppe": "Umwelt", "typ": "Wahlprogramm", "text": "<p>Text</p>"},
  {"id": "PA001", "titel": "Satzung", "gruppe": "Satzung", "typ": "Satzungsänderungsantrag", "text": "<p>Satzung</p>"},
  {"id": "bad id", "titel": "Kaputt", "gruppe": "Umwelt", "typ": "Wahlprogramm", "text": "x"}
]`

type run struct {
	stdout string
	stderr string
	err    error
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newMock(st store.Store, format string) *application.Mock {
	return &application.Mock{
		StoreFunc:        func(context.Context) (store.Store, error) { return st, nil },
		OutputFormatFunc: func() string { return format },
	}
}

func execute(t *testing.T, app application.Application, stdin string, args ...string) run {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return run{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestUpdateWithAutoApprove(t *testing.T) {
	st := memory.New()
	input := writeFile(t, "antragsbuch.json", antragsbuch)

	res := execute(t, newMock(st, "json"), "", input, "-y")
	require.NoError(t, res.err)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Contains(t, res.stdout, `"WP038": "new record"`)
	assert.Contains(t, res.stdout, `"bad id"`)
	assert.Contains(t, res.stderr, "Update completed. 2 new, 0 changed, 0 unchanged, 1 failed")
	assert.Contains(t, res.stderr, "bad id: malformed_identifier")
	assert.NotContains(t, res.stderr, "Update durchführen?")
}

func TestUpdateAnswerNoIsDryRun(t *testing.T) {
	st := memory.New()
	input := writeFile(t, "antragsbuch.json", antragsbuch)

	res := execute(t, newMock(st, "table"), "n\n", input)
	require.NoError(t, res.err)

	assert.Contains(t, res.stderr, "Update durchführen?")
	assert.Contains(t, res.stderr, "Dry run completed, nothing was written.")

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, res.stdout, "WP038")
}

func TestUpdateAnswerYesWrites(t *testing.T) {
	st := memory.New()
	input := writeFile(t, "antragsbuch.json", antragsbuch)

	res := execute(t, newMock(st, "json"), "ja\n", input)
	require.NoError(t, res.err)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpdateDryRunFlag(t *testing.T) {
	st := memory.New()
	input := writeFile(t, "antragsbuch.json", antragsbuch)

	res := execute(t, newMock(st, "json"), "", input, "--dry-run")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stderr, "Update durchführen?")

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateTwiceIsUnchanged(t *testing.T) {
	st := memory.New()
	app := newMock(st, "json")
	input := writeFile(t, "antragsbuch.json", antragsbuch)

	require.NoError(t, execute(t, app, "", input, "-y").err)
	res := execute(t, app, "", input, "-y")
	require.NoError(t, res.err)

	assert.Contains(t, res.stderr, "0 new, 0 changed, 2 unchanged, 1 failed")
	assert.Contains(t, res.stdout, `"updated": {}`)
}

func TestUpdatePrintsDiffs(t *testing.T) {
	st := memory.New()
	app := newMock(st, "table")
	input := writeFile(t, "antragsbuch.json", antragsbuch)
	require.NoError(t, execute(t, app, "", input, "-y").err)

	changed := writeFile(t, "changed.json", strings.Replace(antragsbuch, "<p>Text</p>", "<p>Neuer Text</p>", 1))
	res := execute(t, app, "", changed, "-y")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "=== WP038 ===")
	assert.Contains(t, res.stdout, "- <p>Text")
	assert.Contains(t, res.stdout, "+ <p>Neuer Text")
	assert.Contains(t, res.stderr, "0 new, 1 changed, 1 unchanged, 1 failed")
}

func TestUpdateDiffOptions(t *testing.T) {
	st := memory.New()
	input := writeFile(t, "antragsbuch.json", antragsbuch)
	require.NoError(t, execute(t, newMock(st, "json"), "", input, "-y").err)
	changed := writeFile(t, "changed.json", strings.Replace(antragsbuch, "<p>Text</p>", "<p>Neuer Text</p>", 1))

	full := execute(t, newMock(st, "table"), "", changed, "--dry-run")
	require.NoError(t, full.err)
	assert.Contains(t, full.stdout, "  <h2>Wiki</h2>")

	narrow := execute(t, newMock(st, "table"), "", changed, "--dry-run", "--context", "0")
	require.NoError(t, narrow.err)
	assert.Contains(t, narrow.stdout, "+ <p>Neuer Text")
	assert.NotContains(t, narrow.stdout, "  <h2>Wiki</h2>")

	unified := execute(t, newMock(st, "table"), "", changed, "--dry-run", "--unified")
	require.NoError(t, unified.err)
	assert.Contains(t, unified.stdout, "--- stored/WP038")
	assert.Contains(t, unified.stdout, "+++ antragsbuch/WP038")
	assert.Contains(t, unified.stdout, "@@")
	assert.Contains(t, unified.stdout, "-<p>Text\n")
	assert.Contains(t, unified.stdout, "+<p>Neuer Text\n")
	assert.NotContains(t, unified.stdout, "=== WP038 ===")
}

func TestUpdateWithAgenda(t *testing.T) {
	st := memory.New()
	input := writeFile(t, "antragsbuch.json", antragsbuch)
	agenda := writeFile(t, "to.txt", "PA001 Satzung\nWP038 Wahlprogramm\n")

	require.NoError(t, execute(t, newMock(st, "json"), "", input, agenda, "-y").err)

	tags, err := st.Tags(context.Background(), "WP038")
	require.NoError(t, err)
	assert.Contains(t, tags, "TO2")

	tags, err = st.Tags(context.Background(), "PA001")
	require.NoError(t, err)
	assert.Contains(t, tags, "TO1")
}

func TestUpdateWritesOverview(t *testing.T) {
	st := memory.New()
	input := writeFile(t, "antragsbuch.json", antragsbuch)
	overviewPath := filepath.Join(t.TempDir(), "overview.html")

	res := execute(t, newMock(st, "json"), "", input, "-y", "--overview", overviewPath)
	require.NoError(t, res.err)

	data, err := os.ReadFile(overviewPath)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<h2>Alle Antragsgruppen</h2>")
	assert.Contains(t, html, `<a href="http://bptarguments.piratenpartei.de/141/WP038/">WP038: Wahlprogramm</a>`)
	assert.NotContains(t, html, "Kaputt")
}

func TestUpdateSetupErrors(t *testing.T) {
	st := memory.New()
	input := writeFile(t, "antragsbuch.json", antragsbuch)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "missing.json"), "-y"}},
		{name: "malformed json", args: []string{writeFile(t, "broken.json", "[{"), "-y"}},
		{name: "no arguments", args: []string{}},
		{name: "too many arguments", args: []string{input, input, input}},
		{name: "bad overview format", args: []string{input, "-y", "--overview-format", "pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, newMock(st, "json"), "", tt.args...)
			assert.Error(t, res.err)
		})
	}

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateCanceled(t *testing.T) {
	st := memory.New()
	input := writeFile(t, "antragsbuch.json", antragsbuch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	cmd := NewCommand(newMock(st, "json"))
	cmd.SetArgs([]string{input, "-y"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(ctx)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "3 not processed")
}
