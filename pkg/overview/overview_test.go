package overview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/errors"
)

const base = "http://args.example.org/141/"

func sampleEntries() []Entry {
	return []Entry{
		{ID: "WP038", Title: "Umweltschutz", Group: "Umwelt"},
		{ID: "PA001", Title: "Bildung für alle", Group: "Bildung und Forschung"},
		{ID: "WP002", Title: "Klima", Group: "Umwelt"},
		{ID: "WP038", Title: "Doppelt", Group: "Anderes"},
	}
}

func TestNewSortsGroupsAndEntries(t *testing.T) {
	o := New(base, sampleEntries())

	require.Len(t, o.Groups, 2)
	assert.Equal(t, "Bildung und Forschung", o.Groups[0].Name)
	assert.Equal(t, "Umwelt", o.Groups[1].Name)
	assert.Equal(t, "WP002", o.Groups[1].Entries[0].ID)
	assert.Equal(t, "WP038", o.Groups[1].Entries[1].ID)
	assert.Equal(t, "Umweltschutz", o.Groups[1].Entries[1].Title)
}

func TestURLs(t *testing.T) {
	o := New(base, sampleEntries())
	assert.Equal(t, base+"tags/title/Bildung-und-Forschung/", o.GroupURL(o.Groups[0]))
	assert.Equal(t, base+"PA001/", o.EntryURL(o.Groups[0].Entries[0]))
}

func TestHTML(t *testing.T) {
	html := New(base, sampleEntries()).HTML()

	want := strings.Join([]string{
		"<h2>Alle Antragsgruppen</h2>",
		"<ul>",
		`<li><a href="` + base + `tags/title/Bildung-und-Forschung/">Bildung und Forschung</a></li>`,
		`<li><a href="` + base + `tags/title/Umwelt/">Umwelt</a></li>`,
		"</ul>",
		"<h2>Alle Anträge nach Gruppen</h2>",
		`<h3><a href="` + base + `tags/title/Bildung-und-Forschung/">Bildung und Forschung</a></h3>`,
		"<ul>",
		`<li><a href="` + base + `PA001/">PA001: Bildung für alle</a></li>`,
		"</ul>",
		`<h3><a href="` + base + `tags/title/Umwelt/">Umwelt</a></h3>`,
		"<ul>",
		`<li><a href="` + base + `WP002/">WP002: Klima</a></li>`,
		`<li><a href="` + base + `WP038/">WP038: Umweltschutz</a></li>`,
		"</ul>",
	}, "\n")
	assert.Equal(t, want, html)
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(base, sampleEntries()).Render(&buf, FormatMarkdown))

	out := buf.String()
	assert.Contains(t, out, "## Alle Antragsgruppen")
	assert.Contains(t, out, "[Umwelt]("+base+"tags/title/Umwelt/)")
	assert.Contains(t, out, "[WP038: Umweltschutz]("+base+"WP038/)")
	assert.Less(t, strings.Index(out, "WP002"), strings.Index(out, "WP038"))
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(base, nil).Render(&buf, FormatHTML))
	assert.Contains(t, buf.String(), "<h2>Alle Antragsgruppen</h2>")

	err := New(base, nil).Render(&buf, Format("pdf"))
	assert.True(t, errors.IsValidationError(err))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatHTML, false},
		{"HTML", FormatHTML, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromRecords(t *testing.T) {
	profile := antrag.DefaultProfile()
	records := []antrag.SourceRecord{
		{"id": "WP038 (neu)", "titel": "Umwelt", "text": "t", "typ": "Wahlprogramm", "gruppe": "Umwelt"},
		{"id": "kaputt", "titel": "X", "text": "t", "typ": "T", "gruppe": "G"},
		{"titel": "Ohne ID"},
	}

	entries, failed := FromRecords(profile, records)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{ID: "WP038", Title: "Umwelt", Group: "Umwelt"}, entries[0])
	assert.Contains(t, failed, "kaputt")
	assert.Contains(t, failed, "record[2]")
}
