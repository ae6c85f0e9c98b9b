package prepare

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// Step priorities. The id is translated before the wiki link is built from it.
const (
	priorityCodeTranslation = 100
	priorityWikiLink        = 90
	priorityTitleBreaks     = 50
	priorityStripTeX        = 40
)

var (
	texLabelPattern = regexp.MustCompile(`\\label\{.+?\}`)
	texHyperPattern = regexp.MustCompile(`\\hyperref\[.+?\]\{.+?\}`)
)

// codeTranslationStep rewrites the code prefix of the id field.
type codeTranslationStep struct {
	table map[string]string
	key   string
}

// CodeTranslation returns a step replacing id code prefixes using table,
// e.g. `S"AA013` becomes `SÄA013`. Text after the number is kept.
func CodeTranslation(table map[string]string, fields antrag.FieldMapping) Step {
	return &codeTranslationStep{table: table, key: fields.ID}
}

func (s *codeTranslationStep) Name() string  { return "code_translation" }
func (s *codeTranslationStep) Priority() int { return priorityCodeTranslation }

func (s *codeTranslationStep) Applies(rec antrag.SourceRecord) bool {
	_, ok := rec.Value(s.key)
	return ok && len(s.table) > 0
}

func (s *codeTranslationStep) Apply(_ context.Context, rec antrag.SourceRecord) error {
	raw, _ := rec.Value(s.key)
	id, err := antrag.ParseIdentifier(raw)
	if err != nil {
		return err
	}
	translated := id.Translate(s.table)
	if translated == id {
		return nil
	}
	rec[s.key] = translated.String() + raw[len(id.String()):]
	return nil
}

// wikiLinkStep points the info url at the conference wiki page of the motion.
type wikiLinkStep struct {
	base   string
	fields antrag.FieldMapping
}

// WikiLink returns a step setting the info url field to base + id.
func WikiLink(base string, fields antrag.FieldMapping) Step {
	return &wikiLinkStep{base: base, fields: fields}
}

func (s *wikiLinkStep) Name() string  { return "wiki_link" }
func (s *wikiLinkStep) Priority() int { return priorityWikiLink }

func (s *wikiLinkStep) Applies(rec antrag.SourceRecord) bool {
	_, ok := rec.Value(s.fields.ID)
	return ok
}

func (s *wikiLinkStep) Apply(_ context.Context, rec antrag.SourceRecord) error {
	id, _ := rec.Value(s.fields.ID)
	rec[s.fields.InfoURL] = s.base + id
	return nil
}

// titleBreaksStep replaces line breaks in titles.
type titleBreaksStep struct {
	key string
}

// TitleBreaks returns a step replacing <br> elements in the title with " - ".
// Other markup in the title is reduced to its text.
func TitleBreaks(fields antrag.FieldMapping) Step {
	return &titleBreaksStep{key: fields.Title}
}

func (s *titleBreaksStep) Name() string  { return "title_breaks" }
func (s *titleBreaksStep) Priority() int { return priorityTitleBreaks }

func (s *titleBreaksStep) Applies(rec antrag.SourceRecord) bool {
	title, ok := rec.Value(s.key)
	return ok && strings.Contains(strings.ToLower(title), "<br")
}

func (s *titleBreaksStep) Apply(_ context.Context, rec antrag.SourceRecord) error {
	title, _ := rec.Value(s.key)
	flat, err := FlattenTitle(title)
	if err != nil {
		return err
	}
	rec[s.key] = flat
	return nil
}

// FlattenTitle parses title as an HTML fragment and replaces every br element
// with " - ". Other markup and entities are kept; the fragment is rendered
// back in normalized form, so a bare "&" comes out as "&amp;".
func FlattenTitle(title string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(title))
	if err != nil {
		return "", errors.WrapParse("html", "", err)
	}
	doc.Find("br").ReplaceWithHtml(" - ")
	flat, err := doc.Find("body").Html()
	if err != nil {
		return "", errors.WrapParse("html", "", err)
	}
	return flat, nil
}

// stripTeXStep removes LaTeX cross reference commands left over from the
// PDF Antragsbuch.
type stripTeXStep struct {
	keys []string
}

// StripTeX returns a step removing \label{...} and \hyperref[...]{...} from
// text and motivation.
func StripTeX(fields antrag.FieldMapping) Step {
	return &stripTeXStep{keys: []string{fields.Text, fields.Motivation}}
}

func (s *stripTeXStep) Name() string  { return "strip_tex" }
func (s *stripTeXStep) Priority() int { return priorityStripTeX }

func (s *stripTeXStep) Applies(rec antrag.SourceRecord) bool {
	for _, key := range s.keys {
		if v, ok := rec.Value(key); ok && strings.Contains(v, `\`) {
			return true
		}
	}
	return false
}

func (s *stripTeXStep) Apply(_ context.Context, rec antrag.SourceRecord) error {
	for _, key := range s.keys {
		v, ok := rec[key].(string)
		if !ok {
			continue
		}
		rec[key] = StripTeXCommands(v)
	}
	return nil
}

// StripTeXCommands removes \label{...} and \hyperref[...]{...} from s.
func StripTeXCommands(s string) string {
	s = texLabelPattern.ReplaceAllString(s, "")
	return texHyperPattern.ReplaceAllString(s, "")
}
