package eodhist

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/quantfin/eodhistdata/internal/cache"
)

// Default staleness thresholds per dataset kind, in days. Lists and price
// series default to same-day freshness; fundamentals change slowly enough
// that a month-old snapshot is still acceptable.
const (
	DefaultStaleDaysListing      = 0
	DefaultStaleDaysFundamentals = 30
)

// Option configures the Helper.
type Option func(*Helper)

// WithLogger sets a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Helper) {
		h.logger = logger
	}
}

// WithDefaultStaleDays overrides the default staleness threshold for one
// dataset kind. Per-call WithStaleDays still wins.
func WithDefaultStaleDays(kind cache.Kind, days int) Option {
	return func(h *Helper) {
		h.staleDefaults[kind] = days
	}
}

// CallOption adjusts a single Helper call.
type CallOption func(*callOptions)

type callOptions struct {
	staleDays int
	asOf      time.Time
}

// WithStaleDays sets the maximum acceptable snapshot age, in days, for this
// call. Zero accepts only a same-day snapshot.
func WithStaleDays(days int) CallOption {
	return func(o *callOptions) {
		o.staleDays = days
	}
}

// WithAsOf evaluates the call as of the given date instead of today: the
// staleness window ends at that date and a fresh download is snapshotted
// under it.
func WithAsOf(asOf time.Time) CallOption {
	return func(o *callOptions) {
		o.asOf = asOf
	}
}

// resolveCall folds the call options over the per-kind defaults.
func (h *Helper) resolveCall(kind cache.Kind, opts []CallOption) callOptions {
	co := callOptions{staleDays: h.staleDefaults[kind]}
	for _, opt := range opts {
		opt(&co)
	}
	return co
}
