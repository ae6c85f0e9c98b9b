package reconciler

import (
	"time"

	"github.com/piratetools42/antragsbuch/pkg/antrag"
	"github.com/piratetools42/antragsbuch/pkg/differ"
	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// options configures a reconciler.
type options struct {
	profile *antrag.Profile
	agenda  antrag.AgendaOrder
	dryRun  bool
	now     func() time.Time
	differ  differ.Differ
}

func defaultOptions() *options {
	return &options{
		profile: antrag.DefaultProfile(),
		now:     time.Now,
		differ:  differ.New(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithProfile sets the field mapping and conference settings.
func WithProfile(profile *antrag.Profile) Option {
	return func(o *options) error {
		if profile == nil {
			return &errors.ValidationError{
				Field:   "profile",
				Message: "cannot be nil",
			}
		}
		o.profile = profile
		return nil
	}
}

// WithAgendaOrder sets the agenda used for TO tags. Without it every record
// gets the unscheduled tag.
func WithAgendaOrder(order antrag.AgendaOrder) Option {
	return func(o *options) error {
		o.agenda = order
		return nil
	}
}

// WithDryRun computes outcomes without writing to the store.
func WithDryRun(dryRun bool) Option {
	return func(o *options) error {
		o.dryRun = dryRun
		return nil
	}
}

// WithClock sets the time source for date_added and the "today" default.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{
				Field:   "clock",
				Message: "cannot be nil",
			}
		}
		o.now = now
		return nil
	}
}

// WithDiffer replaces the line differ used for changed details.
func WithDiffer(d differ.Differ) Option {
	return func(o *options) error {
		if d == nil {
			return &errors.ValidationError{
				Field:   "differ",
				Message: "cannot be nil",
			}
		}
		o.differ = d
		return nil
	}
}
