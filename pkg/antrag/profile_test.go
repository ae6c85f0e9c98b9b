package antrag_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/errors"
)

func TestDefaultProfileIsValid(t *testing.T) {
	require.NoError(t, antrag.DefaultProfile().Validate())
}

func TestParseProfile(t *testing.T) {
	data := []byte(`
conference: BPT13.2
fields:
  title: title
code_translation:
  'S"AA': SÄA
additional_tags: [BPT13.2]
unscheduled_tag: Rest
wiki_base_uri: http://wiki.piratenpartei.de/Antrag:Bundesparteitag_2013.2/Antragsportal/
removed:
  - GP002
  - WP006
prepare:
  title_breaks: true
`)

	p, err := antrag.ParseProfile(data, "bpt132.yaml")
	require.NoError(t, err)

	assert.Equal(t, "BPT13.2", p.Conference)
	assert.Equal(t, "title", p.Fields.Title)
	assert.Equal(t, "begruendung", p.Fields.Motivation)
	assert.Equal(t, map[string]string{`S"AA`: "SÄA"}, p.CodeTranslation)
	assert.Equal(t, []string{"BPT13.2"}, p.AdditionalTags)
	assert.Equal(t, "Rest", p.UnscheduledTag)
	assert.Equal(t, 2, p.OwnerUserID)
	assert.True(t, p.Prepare.TitleBreaks)
	assert.False(t, p.Prepare.StripTeX)
	assert.True(t, p.IsRemoved("WP006"))
	assert.False(t, p.IsRemoved("WP007"))
}

func TestParseProfileInvalid(t *testing.T) {
	tests := map[string]string{
		"duplicate keys": "fields:\n  title: text\n",
		"bad owner":      "owner_user_id: -1\n",
		"empty tag":      "additional_tags: ['']\n",
		"empty code":     "code_translation:\n  '': X\n",
		"negative group": "group_id: -3\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := antrag.ParseProfile([]byte(data), "p.yaml")
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestParseProfileSyntaxError(t *testing.T) {
	_, err := antrag.ParseProfile([]byte("fields: [unclosed"), "p.yaml")
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("conference: LPT\n"), 0o644))

	p, err := antrag.LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "LPT", p.Conference)

	_, err = antrag.LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestFieldMappingValidate(t *testing.T) {
	m := antrag.DefaultFieldMapping()
	require.NoError(t, m.Validate())

	m.Owner = ""
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fields.owner")
}
