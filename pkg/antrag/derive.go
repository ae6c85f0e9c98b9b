package antrag

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/piratetools42/antragsbuch/pkg/constants"
)

// detailTemplate is the layout of the question details shown by the front end.
const detailTemplate = `%[1]s
<h2>Wiki</h2>
<a href="%[2]s">%[2]s</a>
<h2>Liquid Feedback</h2>
<a href="%[3]s">%[3]s</a>
<h2>Antragsteller</h2>
%[4]s
<h2>Antragstext</h2>
%[5]s
<h2>Begründung</h2>
%[6]s
<h2>Eingetragen am / Letzte Aktualisierung</h2>
%[7]s
`

// Derived holds the stored representation of an Antrag.
type Derived struct {
	// FullTitle is "<id>: <title>".
	FullTitle string
	// DisplayTitle is FullTitle, shortened to constants.MaxTitleLength.
	DisplayTitle string
	Shortened    bool
	Detail       string
	// Classification holds id, kind, group, additional and agenda tags.
	// It is what the question's additional data records.
	Classification []string
	// Tags is Classification followed by the title words, used for search.
	Tags []string
}

// Derive computes display title, detail HTML and tags. position is the
// 1-based agenda position, 0 if the motion is not on the agenda.
func (p *Profile) Derive(a Antrag, position int) Derived {
	full := FullTitle(a)
	display, shortened := ShortenTitle(full)

	fullTitleHTML := ""
	if shortened {
		fullTitleHTML = "<h2>Voller Titel</h2>" + a.Title + "<br />"
	}

	return Derived{
		FullTitle:    full,
		DisplayTitle: display,
		Shortened:    shortened,
		Detail:         p.RenderDetail(a, fullTitleHTML),
		Classification: p.ClassificationTags(a, position),
		Tags:           p.Tags(a, position),
	}
}

// FullTitle joins id and title.
func FullTitle(a Antrag) string {
	return a.ID + constants.TitleSeparator + a.Title
}

// ShortenTitle cuts title to constants.MaxTitleLength characters, ending
// with an ellipsis, and reports whether it had to.
func ShortenTitle(title string) (string, bool) {
	if utf8.RuneCountInString(title) <= constants.MaxTitleLength {
		return title, false
	}
	keep := constants.MaxTitleLength - utf8.RuneCountInString(constants.TitleEllipsis)
	return string([]rune(title)[:keep]) + constants.TitleEllipsis, true
}

// RenderDetail renders the detail HTML of a. fullTitleHTML is placed at the top.
func (p *Profile) RenderDetail(a Antrag, fullTitleHTML string) string {
	html := fmt.Sprintf(detailTemplate,
		fullTitleHTML,
		a.InfoURL,
		a.FeedbackURL,
		a.Owner,
		a.Text,
		a.Motivation,
		a.Changed,
	)
	for _, fix := range p.DetailFixes[a.ID] {
		html = strings.ReplaceAll(html, fix.Old, fix.New)
	}
	return html
}

// AgendaTag returns "TO<position>" or the unscheduled tag.
func (p *Profile) AgendaTag(position int) string {
	if position > 0 {
		return constants.AgendaTagPrefix + strconv.Itoa(position)
	}
	return p.UnscheduledTag
}

// ClassificationTags returns id, kind, group, the profile's additional tags
// and the agenda tag of a.
func (p *Profile) ClassificationTags(a Antrag, position int) []string {
	candidates := []string{a.ID, a.Kind, a.Group}
	candidates = append(candidates, p.AdditionalTags...)
	candidates = append(candidates, p.AgendaTag(position))
	return dedupTags(candidates)
}

// Tags returns the search tags of a: the classification tags followed by
// every word of the full title.
// Spaces inside tags become dashes. Duplicates are dropped.
func (p *Profile) Tags(a Antrag, position int) []string {
	candidates := p.ClassificationTags(a, position)
	candidates = append(candidates, strings.Fields(FullTitle(a))...)
	return dedupTags(candidates)
}

func dedupTags(candidates []string) []string {
	tags := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		tag := strings.ReplaceAll(c, " ", "-")
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
