// Package reconciler brings the record store in line with an Antragsbuch.
// Each source record becomes exactly one of inserted, updated, unchanged or
// failed; a failing record never stops the records after it.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/differ"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/logging"
	"github.com/piratetools42/antragsbuch/pkg/store"
)

// Reconciler reconciles source records into a store.
type Reconciler interface {
	// Records processes records in input order. The returned error is only
	// set when ctx was canceled; the result then covers the records reached.
	Records(ctx context.Context, records []antrag.SourceRecord) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	store   store.Store
	profile *antrag.Profile
	agenda  antrag.AgendaOrder
	dryRun  bool
	now     func() time.Time
	differ  differ.Differ
}

// New creates a Reconciler writing to st. The profile is validated here,
// once, before any record is seen.
func New(st store.Store, opts ...Option) (Reconciler, error) {
	if st == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "cannot be nil"}
	}

	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	if err := options.profile.Validate(); err != nil {
		return nil, err
	}

	return &reconciler{
		store:   st,
		profile: options.profile,
		agenda:  options.agenda,
		dryRun:  options.dryRun,
		now:     options.now,
		differ:  options.differ,
	}, nil
}

// Records performs reconciliation record by record.
func (r *reconciler) Records(ctx context.Context, records []antrag.SourceRecord) (*Result, error) {
	ctx = logging.WithDryRun(ctx, r.dryRun)
	logger := logging.FromContext(ctx)

	result := NewResult(r.now())
	result.Metadata.DryRun = r.dryRun
	result.Metadata.Conference = r.profile.Conference

	logger.Info().
		Int("records", len(records)).
		Int("agenda_entries", len(r.agenda)).
		Msg("Reconciliation started")

	// pending holds the details a dry run would have written, by id.
	var pending map[string]string
	if r.dryRun {
		pending = make(map[string]string)
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			result.Metadata.Stats.Skipped = len(records) - i
			result.Finalize(r.now())
			logger.Warn().
				Int("skipped", result.Metadata.Stats.Skipped).
				Msg("Reconciliation canceled")
			return result, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}

		outcome := r.record(ctx, i, rec, pending)
		result.add(outcome)
	}

	result.Finalize(r.now())
	r.logSummary(logger, result)
	return result, nil
}

// record reconciles one source record. Errors are turned into a failed outcome.
func (r *reconciler) record(ctx context.Context, index int, rec antrag.SourceRecord, pending map[string]string) Outcome {
	key := r.profile.RawID(rec)
	if key == "" {
		key = fmt.Sprintf("record[%d]", index)
	} else if id, err := r.profile.NormalizeID(key); err == nil {
		key = id
	}

	outcome, err := r.apply(logging.WithAntrag(ctx, key), rec, pending)
	if err != nil {
		outcome.ID = key
		outcome.Kind = OutcomeFailed
		outcome.Err = err
		logging.FromContext(ctx).Error().
			Err(err).
			Str("antrag_id", outcome.ID).
			Str("kind", errors.Kind(err)).
			Msg("Failed to reconcile record")
	}
	return outcome
}

// apply runs the steps for one record and returns its outcome.
func (r *reconciler) apply(ctx context.Context, rec antrag.SourceRecord, pending map[string]string) (Outcome, error) {
	logger := logging.FromContext(ctx)

	// Step 1: Normalize id and fields
	a, err := r.profile.Normalize(rec, r.now())
	if err != nil {
		return Outcome{}, err
	}

	// Step 2: Agenda position and derived fields
	position := r.agenda.Position(a.ID)
	derived := r.profile.Derive(a, position)
	if derived.Shortened {
		logger.Warn().Str("title", derived.FullTitle).Msg("Title too long, shortened")
	}

	outcome := Outcome{
		ID:           a.ID,
		Title:        a.Title,
		DisplayTitle: derived.DisplayTitle,
		Group:        a.Group,
		Position:     position,
	}

	// Step 3: Look up the stored record
	existing, err := r.find(ctx, a.ID, pending)
	if errors.IsNotFound(err) {
		return r.insert(ctx, a, derived, outcome, pending)
	}
	if err != nil {
		return outcome, errors.WrapStore("find", a.ID, err)
	}

	// Step 4: Compare details
	if existing.Details == derived.Detail {
		logger.Debug().Msg("Record exists, details unchanged")
		outcome.Kind = OutcomeUnchanged
		return outcome, nil
	}

	diff := r.differ.Lines(existing.Details, derived.Detail)
	logger.Info().
		Strs("diff", diff.Strings()).
		Msg("Record details changed")

	if r.dryRun {
		pending[a.ID] = derived.Detail
	} else if err := r.store.UpdateDetails(ctx, a.ID, derived.Detail); err != nil {
		return outcome, errors.WrapStore("update", a.ID, err)
	}

	outcome.Kind = OutcomeUpdated
	outcome.Diff = &diff
	return outcome, nil
}

// find looks up id, preferring details a dry run has already written.
func (r *reconciler) find(ctx context.Context, id string, pending map[string]string) (*store.Question, error) {
	if details, ok := pending[id]; ok {
		return &store.Question{URL: id, Details: details}, nil
	}
	return r.store.Find(ctx, id)
}

// insert creates the question and its tags.
func (r *reconciler) insert(ctx context.Context, a antrag.Antrag, derived antrag.Derived, outcome Outcome, pending map[string]string) (Outcome, error) {
	logger := logging.FromContext(ctx)

	data, err := store.AdditionalData(derived.Classification)
	if err != nil {
		return outcome, err
	}

	q := &store.Question{
		URL:            a.ID,
		Title:          derived.DisplayTitle,
		Details:        derived.Detail,
		DateAdded:      r.now(),
		UserID:         r.profile.OwnerUserID,
		GroupID:        r.profile.GroupID,
		AdditionalData: data,
	}

	if r.dryRun {
		pending[a.ID] = derived.Detail
	} else if err := r.store.Insert(ctx, q, derived.Tags); err != nil {
		return outcome, errors.WrapStore("insert", a.ID, err)
	}

	logger.Info().
		Strs("tags", derived.Tags).
		Msg("Record is new")

	outcome.Kind = OutcomeInserted
	return outcome, nil
}

func (r *reconciler) logSummary(logger *zerolog.Logger, result *Result) {
	stats := result.Metadata.Stats
	if r.dryRun {
		logger.Info().Msg("Dry run, nothing was changed; only differences are shown")
	}
	logger.Info().
		Int("inserted", stats.Inserted).
		Int("updated", stats.Updated).
		Int("unchanged", stats.Unchanged).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation finished")
	if stats.Failed > 0 {
		logger.Warn().
			Int("failed", stats.Failed).
			Strs("ids", result.FailedIDs()).
			Msg("Some records failed")
	}
}
