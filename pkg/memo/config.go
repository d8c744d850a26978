package memo

// config.go provides a functional-options surface for a single cache's
// runtime knobs: logging and metrics. Caches here are one per memoized
// function site rather than one per constructed value, so there is no
// per-value capacity or weight knob to carry.

import (
	"github.com/voskan/memotrack/internal/digest"
	"github.com/voskan/memotrack/internal/telemetry"
)

// Option configures a Cache at construction time.
type Option func(*runtimeOptions)

// Spiller is the subset of pkg/spill.Store that Cache needs to mirror
// freshly recorded outputs to durable storage. Out is encoded by the
// caller-supplied encode function passed to WithSpill, since Cache has
// no way to know Out is gob-safe on its own (it may embed a tracked
// argument's unrelated state through a careless Out type, which would
// defeat the point of spilling only the result).
type Spiller interface {
	Record(fn string, key digest.D128, output []byte) error
}

type runtimeOptions struct {
	logger  *telemetry.Logger
	metrics telemetry.Sink
	spill   Spiller
	encode  func(any) ([]byte, error)
}

func newRuntimeOptions(opts ...Option) *runtimeOptions {
	o := &runtimeOptions{
		logger:  telemetry.Nop,
		metrics: telemetry.Noop,
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// WithLogger plugs an external *zap.Logger, wrapped for memotrack's own
// event set. The cache never logs on the hot path (hit/miss); only
// eviction sweeps, non-determinism warnings and spill-mirror failures
// reach it.
func WithLogger(l *telemetry.Logger) Option {
	return func(o *runtimeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics plugs a telemetry.Sink, typically one built with
// telemetry.NewPromSink against a *prometheus.Registry.
func WithMetrics(sink telemetry.Sink) Option {
	return func(o *runtimeOptions) {
		if sink != nil {
			o.metrics = sink
		}
	}
}

// WithSpill mirrors every freshly recorded cache entry to s, encoded by
// encode (typically a small wrapper around encoding/gob). Mirroring runs
// synchronously on the miss path after the call tree insert succeeds;
// it is best-effort, logged through WithLogger on failure, and never
// changes what Memoize returns.
func WithSpill(s Spiller, encode func(any) ([]byte, error)) Option {
	return func(o *runtimeOptions) {
		if s != nil && encode != nil {
			o.spill = s
			o.encode = encode
		}
	}
}
