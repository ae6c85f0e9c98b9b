package reconciler

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/piratetools42/antragsbuch/pkg/constants"
	"github.com/piratetools42/antragsbuch/pkg/differ"
	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// OutcomeKind classifies what happened to one source record.
type OutcomeKind string

const (
	// OutcomeUnchanged means the stored details already matched.
	OutcomeUnchanged OutcomeKind = "unchanged"
	// OutcomeUpdated means the stored details differed.
	OutcomeUpdated OutcomeKind = "updated"
	// OutcomeInserted means the record was new.
	OutcomeInserted OutcomeKind = "inserted"
	// OutcomeFailed means the record could not be processed.
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome is the result of reconciling one source record.
type Outcome struct {
	Kind         OutcomeKind  `json:"kind" yaml:"kind"`
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title,omitempty" yaml:"title,omitempty"`
	DisplayTitle string       `json:"display_title,omitempty" yaml:"display_title,omitempty"`
	Group        string       `json:"group,omitempty" yaml:"group,omitempty"`
	Position     int          `json:"position,omitempty" yaml:"position,omitempty"`
	Diff         *differ.Diff `json:"diff,omitempty" yaml:"diff,omitempty"`
	Err          error        `json:"-" yaml:"-"`
}

// Change is the value stored for an inserted or updated record.
type Change struct {
	// New marks an inserted record; Diff is empty then.
	New  bool
	Diff differ.Diff
}

// String returns the "new record" sentinel or the diff lines.
func (c Change) String() string {
	if c.New {
		return constants.NewRecordSentinel
	}
	return c.Diff.String()
}

// MarshalJSON encodes the sentinel as a string and diffs as line arrays.
func (c Change) MarshalJSON() ([]byte, error) {
	if c.New {
		return json.Marshal(constants.NewRecordSentinel)
	}
	return json.Marshal(c.Diff)
}

// MarshalYAML mirrors MarshalJSON.
func (c Change) MarshalYAML() (any, error) {
	if c.New {
		return constants.NewRecordSentinel, nil
	}
	return c.Diff.Strings(), nil
}

// Result represents the outcome of a reconciliation run.
type Result struct {
	// Updated maps record ids to their change, for inserted and updated records.
	Updated map[string]Change `json:"updated" yaml:"updated"`

	// Failed maps record ids to the error that stopped them.
	Failed map[string]error `json:"-" yaml:"-"`

	// Outcomes lists every processed record in input order.
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`

	// Groups maps each group to the ids of its successfully processed records.
	Groups map[string][]string `json:"groups" yaml:"groups"`

	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	StartTime  time.Time        `json:"start_time" yaml:"start_time"`
	EndTime    time.Time        `json:"end_time" yaml:"end_time"`
	Duration   time.Duration    `json:"duration" yaml:"duration"`
	DryRun     bool             `json:"dry_run" yaml:"dry_run"`
	Conference string           `json:"conference" yaml:"conference"`
	Stats      ResultStatistics `json:"stats" yaml:"stats"`
}

// ResultStatistics contains counts per outcome.
type ResultStatistics struct {
	Processed int `json:"processed" yaml:"processed"`
	Inserted  int `json:"inserted" yaml:"inserted"`
	Updated   int `json:"updated" yaml:"updated"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Failed    int `json:"failed" yaml:"failed"`
	// Skipped counts records not reached because the run was canceled.
	Skipped int `json:"skipped" yaml:"skipped"`
}

// NewResult creates an empty result.
func NewResult(start time.Time) *Result {
	return &Result{
		Updated:  make(map[string]Change),
		Failed:   make(map[string]error),
		Outcomes: []Outcome{},
		Groups:   make(map[string][]string),
		Metadata: ResultMetadata{StartTime: start},
	}
}

// add records an outcome.
func (r *Result) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Metadata.Stats.Processed++

	switch o.Kind {
	case OutcomeFailed:
		r.Failed[o.ID] = o.Err
		r.Metadata.Stats.Failed++
		return
	case OutcomeInserted:
		r.Updated[o.ID] = Change{New: true}
		r.Metadata.Stats.Inserted++
	case OutcomeUpdated:
		r.Updated[o.ID] = Change{Diff: *o.Diff}
		r.Metadata.Stats.Updated++
	case OutcomeUnchanged:
		r.Metadata.Stats.Unchanged++
	}

	if o.Group != "" {
		r.Groups[o.Group] = append(r.Groups[o.Group], o.ID)
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize(end time.Time) {
	r.Metadata.EndTime = end
	r.Metadata.Duration = end.Sub(r.Metadata.StartTime)
}

// IsSuccess returns true if no record failed.
func (r *Result) IsSuccess() bool {
	return len(r.Failed) == 0
}

// HasChanges returns true if any record was inserted or updated.
func (r *Result) HasChanges() bool {
	return len(r.Updated) > 0
}

// FailedIDs returns the ids of failed records, sorted.
func (r *Result) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failed))
	for id := range r.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FailureMessages maps failed ids to their error text.
func (r *Result) FailureMessages() map[string]string {
	out := make(map[string]string, len(r.Failed))
	for id, err := range r.Failed {
		out[id] = fmt.Sprintf("%s: %v", errors.Kind(err), err)
	}
	return out
}

// MarshalJSON adds the failures as error strings.
func (r *Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		*plain
		Failed map[string]string `json:"failed"`
	}{(*plain)(r), r.FailureMessages()})
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	counts := fmt.Sprintf("%d new, %d changed, %d unchanged, %d failed", s.Inserted, s.Updated, s.Unchanged, s.Failed)
	if s.Skipped > 0 {
		counts += fmt.Sprintf(", %d not processed", s.Skipped)
	}

	var b strings.Builder
	if r.Metadata.DryRun {
		b.WriteString("Dry run completed, nothing was written. ")
	} else {
		b.WriteString("Update completed. ")
	}
	b.WriteString(counts)
	if !r.IsSuccess() {
		b.WriteString(". Failed: ")
		b.WriteString(strings.Join(r.FailedIDs(), ", "))
	}
	return b.String()
}

// MarshalYAML adds the failures as error strings.
func (r *Result) MarshalYAML() (any, error) {
	return struct {
		Updated  map[string]Change   `yaml:"updated"`
		Failed   map[string]string   `yaml:"failed"`
		Outcomes []Outcome           `yaml:"outcomes"`
		Groups   map[string][]string `yaml:"groups"`
		Metadata ResultMetadata      `yaml:"metadata"`
	}{r.Updated, r.FailureMessages(), r.Outcomes, r.Groups, r.Metadata}, nil
}
