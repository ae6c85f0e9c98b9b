// Package antrag models motions ("Anträge") as exported in an Antragsbuch and
// derives everything the wikiarguments front end stores for them: the
// normalized id, the display title, the rendered detail HTML and the tags.
//
// All derivation is driven by a Profile. A Profile is built once, validated
// once, and then passed explicitly to everything that needs it.
package antrag

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// SourceRecord is one motion object as found in an Antragsbuch export.
// Keys are resolved through a FieldMapping.
type SourceRecord map[string]any

// Value returns the text form of key and whether it is present.
// Null values count as absent.
func (r SourceRecord) Value(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	default:
		return fmt.Sprint(val), true
	}
}

// Antrag is a normalized motion: id translated, defaults applied, text cleaned.
type Antrag struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Text        string `json:"text" yaml:"text"`
	Motivation  string `json:"motivation" yaml:"motivation"`
	Owner       string `json:"owner" yaml:"owner"`
	Kind        string `json:"kind" yaml:"kind"`
	Group       string `json:"group" yaml:"group"`
	InfoURL     string `json:"info_url" yaml:"info_url"`
	FeedbackURL string `json:"feedback_url" yaml:"feedback_url"`
	Changed     string `json:"changed" yaml:"changed"`
}

// DecodeRecords reads an Antragsbuch, a JSON array of objects.
// Numbers are kept verbatim so that re-encoding does not change them.
func DecodeRecords(r io.Reader) ([]SourceRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []SourceRecord
	if err := dec.Decode(&records); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return records, nil
}

// EncodeRecords writes records as an indented JSON array.
func EncodeRecords(w io.Writer, records []SourceRecord) error {
	if records == nil {
		records = []SourceRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}
