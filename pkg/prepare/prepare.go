// Package prepare transforms an Antragsbuch export before it is imported.
//
// A Pipeline drops the motions a conference withdrew and runs a chain of
// Steps over every remaining record: code translation, wiki links and
// optional title and TeX cleanup. A failing step is logged and the record is
// kept as far as it got.
package prepare

import (
	"context"
	"maps"
	"sort"

	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/logging"
)

// Step defines a single transformation of a source record.
type Step interface {
	// Name returns the step name used in logs.
	Name() string

	// Applies reports whether the step has anything to do for rec.
	Applies(rec antrag.SourceRecord) bool

	// Apply changes rec in place.
	Apply(ctx context.Context, rec antrag.SourceRecord) error

	// Priority returns the priority of this step (higher = applied first).
	Priority() int
}

// Pipeline manages the removal filter and a chain of steps.
type Pipeline struct {
	profile *antrag.Profile
	steps   []Step
}

// Report summarizes a pipeline run.
type Report struct {
	Total   int `json:"total" yaml:"total"`
	Kept    int `json:"kept" yaml:"kept"`
	Removed int `json:"removed" yaml:"removed"`
	// RemovedIDs lists the ids of dropped records, sorted.
	RemovedIDs []string `json:"removed_ids" yaml:"removed_ids"`
	// Failed maps record ids to the first step error seen for them.
	Failed map[string]error `json:"-" yaml:"-"`
}

// NewPipeline creates a pipeline filtering by profile.Removed and running
// steps ordered by priority.
func NewPipeline(profile *antrag.Profile, steps ...Step) *Pipeline {
	sorted := make([]Step, len(steps))
	copy(sorted, steps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})

	return &Pipeline{
		profile: profile,
		steps:   sorted,
	}
}

// FromProfile creates the pipeline selected by the profile settings.
func FromProfile(profile *antrag.Profile) *Pipeline {
	steps := []Step{CodeTranslation(profile.CodeTranslation, profile.Fields)}
	if profile.WikiBaseURI != "" {
		steps = append(steps, WikiLink(profile.WikiBaseURI, profile.Fields))
	}
	if profile.Prepare.TitleBreaks {
		steps = append(steps, TitleBreaks(profile.Fields))
	}
	if profile.Prepare.StripTeX {
		steps = append(steps, StripTeX(profile.Fields))
	}
	return NewPipeline(profile, steps...)
}

// Steps returns the steps in execution order.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Run filters and transforms records. The input slice and its maps are not
// modified. Run returns early only if ctx is canceled.
func (p *Pipeline) Run(ctx context.Context, records []antrag.SourceRecord) ([]antrag.SourceRecord, *Report, error) {
	logger := logging.FromContext(ctx)
	report := &Report{
		Total:      len(records),
		RemovedIDs: []string{},
		Failed:     make(map[string]error),
	}

	kept := make([]antrag.SourceRecord, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return kept, report, errors.WrapResource("prepare", "records", "", err)
		}

		id := p.profile.RawID(rec)
		if p.removed(id) {
			report.RemovedIDs = append(report.RemovedIDs, id)
			continue
		}

		out := maps.Clone(rec)
		for _, step := range p.steps {
			if !step.Applies(out) {
				continue
			}
			if err := step.Apply(ctx, out); err != nil {
				logger.Warn().
					Err(err).
					Str("step", step.Name()).
					Str("antrag_id", id).
					Msg("Prepare step failed, keeping record")
				if _, seen := report.Failed[id]; !seen {
					report.Failed[id] = err
				}
			}
		}
		kept = append(kept, out)
	}

	sort.Strings(report.RemovedIDs)
	report.Kept = len(kept)
	report.Removed = len(report.RemovedIDs)

	logger.Info().
		Int("kept", report.Kept).
		Int("removed", report.Removed).
		Msg("Prepared records")
	if report.Removed > 0 {
		logger.Info().
			Strs("ids", report.RemovedIDs).
			Msg("Removed records")
	}
	return kept, report, nil
}

// removed matches the raw id as well as its translated form.
func (p *Pipeline) removed(id string) bool {
	if id == "" {
		return false
	}
	if p.profile.IsRemoved(id) {
		return true
	}
	normalized, err := p.profile.NormalizeID(id)
	return err == nil && normalized != id && p.profile.IsRemoved(normalized)
}
