// Package overview renders the group overview page: every motion group
// linking to its tag page on the arguments site, followed by the motions of
// each group.
package overview

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// Format selects the output markup.
type Format string

const (
	// FormatHTML is the layout pasted into the arguments site.
	FormatHTML Format = "html"
	// FormatMarkdown is meant for wikis and READMEs.
	FormatMarkdown Format = "markdown"
)

// ParseFormat parses a format name; "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "html":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", errors.NewValidationError("format", s, "must be html or markdown")
	}
}

// Entry is one motion of the overview.
type Entry struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Group string `json:"group" yaml:"group"`
}

// Group is a motion group with its entries sorted by id.
type Group struct {
	Name    string  `json:"name" yaml:"name"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Slug returns the group name as used in tag urls.
func (g Group) Slug() string {
	return strings.ReplaceAll(g.Name, " ", "-")
}

// Overview holds groups sorted by name.
type Overview struct {
	Groups []Group `json:"groups" yaml:"groups"`
	base   string
}

// New groups entries. base is the arguments site url all links start with.
// A repeated id keeps its first entry.
func New(base string, entries []Entry) *Overview {
	byGroup := make(map[string][]Entry)
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		byGroup[e.Group] = append(byGroup[e.Group], e)
	}

	o := &Overview{base: base, Groups: make([]Group, 0, len(byGroup))}
	for name, members := range byGroup {
		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
		o.Groups = append(o.Groups, Group{Name: name, Entries: members})
	}
	sort.Slice(o.Groups, func(i, j int) bool { return o.Groups[i].Name < o.Groups[j].Name })
	return o
}

// FromRecords normalizes records with profile and returns their entries.
// Records that fail to normalize are returned in the error map keyed by raw id.
func FromRecords(profile *antrag.Profile, records []antrag.SourceRecord) ([]Entry, map[string]error) {
	entries := make([]Entry, 0, len(records))
	failed := make(map[string]error)
	for i, rec := range records {
		a, err := profile.Normalize(rec, time.Time{})
		if err != nil {
			key := profile.RawID(rec)
			if key == "" {
				key = fmt.Sprintf("record[%d]", i)
			}
			failed[key] = err
			continue
		}
		entries = append(entries, Entry{ID: a.ID, Title: a.Title, Group: a.Group})
	}
	return entries, failed
}

// GroupURL returns the tag page of g.
func (o *Overview) GroupURL(g Group) string {
	return o.base + "tags/title/" + g.Slug() + "/"
}

// EntryURL returns the page of e.
func (o *Overview) EntryURL(e Entry) string {
	return o.base + e.ID + "/"
}

// Render writes the overview in the given format.
func (o *Overview) Render(w io.Writer, format Format) error {
	switch format {
	case FormatMarkdown:
		return o.WriteMarkdown(w)
	case FormatHTML, "":
		_, err := io.WriteString(w, o.HTML())
		return errors.WrapIO("write", "overview", err)
	default:
		return errors.NewValidationError("format", string(format), "unsupported overview format")
	}
}

// HTML returns the overview as an HTML fragment.
func (o *Overview) HTML() string {
	lines := []string{"<h2>Alle Antragsgruppen</h2>", "<ul>"}
	for _, g := range o.Groups {
		lines = append(lines, "<li>"+o.groupLink(g)+"</li>")
	}
	lines = append(lines, "</ul>", "<h2>Alle Anträge nach Gruppen</h2>")

	for _, g := range o.Groups {
		lines = append(lines, "<h3>"+o.groupLink(g)+"</h3>", "<ul>")
		for _, e := range g.Entries {
			lines = append(lines, fmt.Sprintf(`<li><a href="%s">%s: %s</a></li>`, o.EntryURL(e), e.ID, e.Title))
		}
		lines = append(lines, "</ul>")
	}
	return strings.Join(lines, "\n")
}

func (o *Overview) groupLink(g Group) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, o.GroupURL(g), g.Name)
}

// WriteMarkdown writes the overview as a Markdown document.
func (o *Overview) WriteMarkdown(w io.Writer) error {
	doc := md.NewMarkdown(w)

	groupLinks := make([]string, len(o.Groups))
	for i, g := range o.Groups {
		groupLinks[i] = md.Link(g.Name, o.GroupURL(g))
	}
	doc.H2("Alle Antragsgruppen").LF().
		BulletList(groupLinks...).LF().
		H2("Alle Anträge nach Gruppen").LF()

	for _, g := range o.Groups {
		items := make([]string, len(g.Entries))
		for i, e := range g.Entries {
			items[i] = md.Link(e.ID+": "+e.Title, o.EntryURL(e))
		}
		doc.H3(md.Link(g.Name, o.GroupURL(g))).LF().
			BulletList(items...).LF()
	}

	return errors.WrapIO("write", "overview", doc.Build())
}
