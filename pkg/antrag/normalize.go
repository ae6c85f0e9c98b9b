package antrag

import (
	"strings"
	"time"

	"github.com/piratetools42/antragsbuch/pkg/constants"
	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// textTrailer is the set of characters stripped from the end of a text.
// Exports end texts with empty paragraphs and closing tags.
const textTrailer = "</p> </div> <p><br /> </p>"

// TrimText removes trailing markup characters from text.
func TrimText(text string) string {
	return strings.TrimRight(text, textTrailer)
}

// RawID returns the unnormalized id of rec, or "" if it has none.
func (p *Profile) RawID(rec SourceRecord) string {
	id, _ := rec.Value(p.Fields.ID)
	return id
}

// Normalize turns a source record into an Antrag. now is used only when the
// profile's default for the changed field is "today".
func (p *Profile) Normalize(rec SourceRecord, now time.Time) (Antrag, error) {
	raw, ok := rec.Value(p.Fields.ID)
	if !ok {
		return Antrag{}, errors.NewMalformedIdentifierError("")
	}
	id, err := p.NormalizeID(raw)
	if err != nil {
		return Antrag{}, err
	}

	a := Antrag{ID: id}

	required := []struct {
		dst *string
		key string
	}{
		{&a.Title, p.Fields.Title},
		{&a.Text, p.Fields.Text},
		{&a.Kind, p.Fields.Kind},
		{&a.Group, p.Fields.Group},
	}
	for _, f := range required {
		v, ok := rec.Value(f.key)
		if !ok {
			return Antrag{}, errors.NewMissingFieldError(id, f.key)
		}
		*f.dst = v
	}

	optional := []struct {
		dst *string
		key string
	}{
		{&a.Motivation, p.Fields.Motivation},
		{&a.Owner, p.Fields.Owner},
		{&a.InfoURL, p.Fields.InfoURL},
		{&a.FeedbackURL, p.Fields.FeedbackURL},
	}
	for _, f := range optional {
		*f.dst = valueOr(rec, f.key, constants.DefaultFieldValue)
	}

	a.Changed = valueOr(rec, p.Fields.Changed, p.defaultChanged(now))
	a.Text = TrimText(a.Text)
	return a, nil
}

func (p *Profile) defaultChanged(now time.Time) string {
	switch p.DefaultChanged {
	case "":
		return constants.DefaultFieldValue
	case constants.TodayKeyword:
		return now.Format(constants.DateFormat)
	default:
		return p.DefaultChanged
	}
}

func valueOr(rec SourceRecord, key, def string) string {
	if v, ok := rec.Value(key); ok {
		return v
	}
	return def
}
