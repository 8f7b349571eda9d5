package checkpoint

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Adjoint applies one step's transposed Jacobian: given the snapshot of
// step i and the adjoint flowing into step i+1, it returns the adjoint of
// step i. Sweep passes snapshots it still owns and expects them to be left
// unchanged; SweepOnce hands ownership over.
type Adjoint[S, G any] func(s S, g G) G

// InPlaceAdjoint is an Adjoint that receives the stored snapshot by pointer
// and may modify it.
type InPlaceAdjoint[S, G any] func(s *S, g G) G

// Restore maps the snapshot of step i to the snapshot of step i+1.
type Restore[S any] func(s S) S

// Chain is a reified loop that can run its adjoints backward.
type Chain[S, G any] interface {
	// Sweep applies adjoint once per step, last step first, starting from g.
	// It does not consume the chain and may be repeated.
	Sweep(g G, adjoint Adjoint[S, G]) G
	// SweepMut is Sweep with mutable access to snapshots.
	SweepMut(g G, adjoint InPlaceAdjoint[S, G]) G
	// SweepOnce is Sweep that releases snapshots as it goes.
	// The chain is empty afterwards.
	SweepOnce(g G, adjoint Adjoint[S, G]) G
	// Len returns the number of snapshots currently held.
	Len() int
	// Steps returns the number of original loop steps represented.
	Steps() int
	// Stats returns the statistics of the most recent sweep.
	Stats() SweepStats
}

// Strategy selects a chain implementation.
type Strategy string

// Available strategies.
const (
	StrategyFull Strategy = "full"
	StrategyCtz  Strategy = "ctz"
)

// ParseStrategy converts a (case-insensitive) name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case StrategyFull, StrategyCtz:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// New builds a chain for the given strategy. restore is required by
// StrategyCtz and ignored by StrategyFull.
func New[S, G any](strategy Strategy, src iter.Seq[S], restore Restore[S], opts ...Option) (Chain[S, G], error) {
	switch strategy {
	case StrategyFull:
		return NewFullChain[S, G](src, opts...), nil
	case StrategyCtz:
		if restore == nil {
			return nil, ErrMissingRestore
		}
		return NewCtzChain[S, G](src, restore, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
}

// SweepStats describes one backward sweep.
type SweepStats struct {
	Strategy     Strategy
	Steps        int           // original loop steps
	Retained     int           // snapshots held when the sweep started
	AdjointCalls int           // adjoint invocations; equals Steps
	Restorations int           // restore invocations (CtzChain only)
	PeakHeld     int           // most snapshots held at once, retained plus regenerated
	Duration     time.Duration // wall time of the sweep
}

// Observer receives the statistics of every completed sweep.
type Observer interface {
	ObserveSweep(stats SweepStats)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(stats SweepStats)

// ObserveSweep calls f(stats).
func (f ObserverFunc) ObserveSweep(stats SweepStats) { f(stats) }

// Option configures a chain.
type Option func(*options)

type options struct {
	logger   zerolog.Logger
	observer Observer
}

func defaultOptions() options {
	return options{logger: zerolog.Nop()}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for per-sweep debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver registers an observer notified after every sweep.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// finish stamps the duration and reports the sweep.
func (o *options) finish(stats *SweepStats, started time.Time) {
	stats.Duration = time.Since(started)
	o.logger.Debug().
		Str("strategy", string(stats.Strategy)).
		Int("steps", stats.Steps).
		Int("retained", stats.Retained).
		Int("adjoint_calls", stats.AdjointCalls).
		Int("restorations", stats.Restorations).
		Int("peak_held", stats.PeakHeld).
		Dur("duration", stats.Duration).
		Msg("sweep complete")
	if o.observer != nil {
		o.observer.ObserveSweep(*stats)
	}
}
