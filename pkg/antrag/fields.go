package antrag

import (
	"fmt"

	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// FieldMapping maps logical field names to the keys used in the export.
type FieldMapping struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Text        string `yaml:"text" json:"text"`
	Motivation  string `yaml:"motivation" json:"motivation"`
	Owner       string `yaml:"owner" json:"owner"`
	Kind        string `yaml:"kind" json:"kind"`
	Group       string `yaml:"group" json:"group"`
	InfoURL     string `yaml:"info_url" json:"info_url"`
	FeedbackURL string `yaml:"feedback_url" json:"feedback_url"`
	Changed     string `yaml:"changed" json:"changed"`
}

// DefaultFieldMapping returns the keys used by the Antragsbuch exports.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		ID:          "id",
		Title:       "titel",
		Text:        "text",
		Motivation:  "begruendung",
		Owner:       "autor",
		Kind:        "typ",
		Group:       "gruppe",
		InfoURL:     "wiki",
		FeedbackURL: "lqfb",
		Changed:     "changed",
	}
}

type namedKey struct {
	name string
	key  string
}

func (m FieldMapping) named() []namedKey {
	return []namedKey{
		{"id", m.ID},
		{"title", m.Title},
		{"text", m.Text},
		{"motivation", m.Motivation},
		{"owner", m.Owner},
		{"kind", m.Kind},
		{"group", m.Group},
		{"info_url", m.InfoURL},
		{"feedback_url", m.FeedbackURL},
		{"changed", m.Changed},
	}
}

// Validate checks that every field has a key and no key is used twice.
func (m FieldMapping) Validate() error {
	seen := make(map[string]string)
	for _, f := range m.named() {
		if f.key == "" {
			return errors.NewValidationError("fields."+f.name, f.key, "key must not be empty")
		}
		if other, ok := seen[f.key]; ok {
			return errors.NewValidationError("fields."+f.name, f.key,
				fmt.Sprintf("key %q already used for %s", f.key, other))
		}
		seen[f.key] = f.name
	}
	return nil
}

// overlay returns m with every non-empty key of o applied.
func (m FieldMapping) overlay(o FieldMapping) FieldMapping {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&m.ID, o.ID)
	set(&m.Title, o.Title)
	set(&m.Text, o.Text)
	set(&m.Motivation, o.Motivation)
	set(&m.Owner, o.Owner)
	set(&m.Kind, o.Kind)
	set(&m.Group, o.Group)
	set(&m.InfoURL, o.InfoURL)
	set(&m.FeedbackURL, o.FeedbackURL)
	set(&m.Changed, o.Changed)
	return m
}
