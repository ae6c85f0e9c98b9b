package prepare

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piratetools42/antragsbuch/internal/cmd/application"
	"github.com/piratetools42/antragsbuch/internal/source"
	"github.com/piratetools42/antragsbuch/pkg/antrag"
)

func testProfile() *antrag.Profile {
	p := antrag.DefaultProfile()
	p.CodeTranslation = map[string]string{`S"AA`: "SÄA"}
	p.Removed = []string{"GP005"}
	p.WikiBaseURI = "http://wiki.example.org/Antrag/"
	p.Prepare.TitleBreaks = true
	return p
}

func writeInput(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal([]map[string]any{
		{"id": `S"AA014`, "titel": "Satzung<br/>Teil 2"},
		{"id": "GP005", "titel": "Weg"},
		{"id": "WP038", "titel": "Wahlprogramm"},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, opener *source.Opener, args ...string) (string, string, error) {
	t.Helper()
	app := &application.Mock{
		ProfileFunc:      func() (*antrag.Profile, error) { return testProfile(), nil },
		OutputFormatFunc: func() string { return "json" },
	}
	if opener != nil {
		app.SourceFunc = func() *source.Opener { return opener }
	}
	var stdout, stderr bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestPrepareToFile(t *testing.T) {
	input := writeInput(t)
	target := filepath.Join(t.TempDir(), "out", "antragsbuch.json")

	_, stderr, err := execute(t, nil, input, target)
	require.NoError(t, err)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	records, err := antrag.DecodeRecords(f)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "SÄA014", records[0]["id"])
	assert.Equal(t, "Satzung - Teil 2", records[0]["titel"])
	assert.Equal(t, "http://wiki.example.org/Antrag/WP038", records[1]["wiki"])

	assert.Contains(t, stderr, `"removed_ids": [`)
	assert.Contains(t, stderr, "Removed: GP005")
}

func TestPrepareToStdout(t *testing.T) {
	input := writeInput(t)
	var out bytes.Buffer
	opener := source.New(source.WithStdio(bytes.NewReader(nil), &out))

	_, _, err := execute(t, opener, input, "-")
	require.NoError(t, err)

	records, err := antrag.DecodeRecords(&out)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestPrepareErrors(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing input", args: []string{filepath.Join(t.TempDir(), "missing.json"), "-"}},
		{name: "malformed input", args: []string{broken, "-"}},
		{name: "missing output argument", args: []string{broken}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, nil, tt.args...)
			assert.Error(t, err)
		})
	}
}
