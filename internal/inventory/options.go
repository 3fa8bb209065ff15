// Package inventory implements the pharmacy stock ledger and the read
// models built on it: per-medication stock, expiration reports,
// cross-pharmacy availability search and the pharmacy dashboard.
//
// Every operation returns either a value or an error from apperr, never
// both. No quantities or derived views are cached between calls.
package inventory

import (
	"context"
	"log/slog"
	"time"

	"medstock/m/internal/apperr"
	"medstock/m/internal/config"
	"medstock/m/internal/metrics"
	"medstock/m/internal/repository"
)

// Option configures a service.
type Option func(*options)

type options struct {
	clock   func() time.Time
	logger  *slog.Logger
	metrics *metrics.Collector
	horizon int
}

func newOptions(opts []Option) options {
	o := options{
		clock:   time.Now,
		logger:  slog.Default(),
		horizon: config.DefaultExpiryHorizonDays,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock sets the source of "now" used to compute today's date.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) { o.metrics = c }
}

// WithHorizon sets the expiring-soon window used when a caller passes 0.
func WithHorizon(days int) Option {
	return func(o *options) {
		if days > 0 {
			o.horizon = days
		}
	}
}

// observe records the outcome of op. Call it deferred with a pointer to the
// named error result.
func (o options) observe(op string, start time.Time, err *error) {
	o.metrics.ObserveMutation(op, *err)
	o.metrics.ObserveDuration(op, start)
}

// resolveHorizon maps a requested horizon onto the one to use.
func (o options) resolveHorizon(days int) (int, error) {
	switch {
	case days < 0:
		return 0, apperr.Validation("days", "must not be negative")
	case days == 0:
		return o.horizon, nil
	default:
		return days, nil
	}
}

// requirePharmacy rejects a non-positive id and reports an unknown pharmacy
// as not found.
func requirePharmacy(ctx context.Context, pharmacies repository.PharmacyRepository, id int64) error {
	if id <= 0 {
		return apperr.Validation("pharmacy_id", "must be positive")
	}
	ok, err := pharmacies.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("pharmacy", id)
	}
	return nil
}
