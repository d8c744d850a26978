// Package telemetry is a thin abstraction over structured logging and
// Prometheus metrics so that pkg/memo can be used with or without either:
// when the caller does not supply a *prometheus.Registry or *zap.Logger,
// every call in this package is a no-op and the hot path does not pay
// for it.
//
// Metric names follow Prometheus conventions, counters suffixed
// "_total":
//
//	┌────────────────────────────────┬───────┬─────────────┐
//	│ Metric                         │ Type  │ Labels      │
//	├────────────────────────────────┼───────┼─────────────┤
//	│ memotrack_hits_total           │ Ctr   │ fn          │
//	│ memotrack_misses_total         │ Ctr   │ fn          │
//	│ memotrack_missing_call_total   │ Ctr   │ fn          │
//	│ memotrack_evictions_total      │ Ctr   │ fn          │
//	│ memotrack_accelerator_entries  │ Gge   │ (none)      │
//	│ memotrack_calltree_nodes       │ Gge   │ fn, kind    │
//	└────────────────────────────────┴───────┴─────────────┘
//
// © 2025 memotrack authors. MIT License.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Sink is the interface abstracting the concrete metrics backend
// (Prometheus vs noop). The concrete backends are unexported; pkg/memo
// only ever holds a Sink.
type Sink interface {
	IncHit(fn string)
	IncMiss(fn string)
	IncMissingCall(fn string)
	IncEviction(fn string, n int)
	SetAcceleratorEntries(n int)
	SetCalltreeNodes(fn string, inner, leaf int)
}

type noopSink struct{}

func (noopSink) IncHit(string)                     {}
func (noopSink) IncMiss(string)                    {}
func (noopSink) IncMissingCall(string)             {}
func (noopSink) IncEviction(string, int)           {}
func (noopSink) SetAcceleratorEntries(int)         {}
func (noopSink) SetCalltreeNodes(string, int, int) {}

// Noop is the zero-cost Sink used when the caller supplies no registry.
var Noop Sink = noopSink{}

type promSink struct {
	hits         *prometheus.CounterVec
	misses       *prometheus.CounterVec
	missingCalls *prometheus.CounterVec
	evictions    *prometheus.CounterVec
	accelerator  prometheus.Gauge
	calltree     *prometheus.GaugeVec
}

// NewPromSink registers memotrack's collectors against reg and returns a
// Sink backed by them. Callers pass the result to memo.WithMetrics.
func NewPromSink(reg *prometheus.Registry) Sink {
	label := []string{"fn"}
	ps := &promSink{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memotrack",
			Name:      "hits_total",
			Help:      "Number of Memoize calls served from the call tree.",
		}, label),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memotrack",
			Name:      "misses_total",
			Help:      "Number of Memoize calls that recorded a fresh branch.",
		}, label),
		missingCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memotrack",
			Name:      "missing_call_total",
			Help:      "Number of validation walks that aborted with a missing-call signal.",
		}, label),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memotrack",
			Name:      "evictions_total",
			Help:      "Number of call-tree branches removed by age-based eviction.",
		}, label),
		accelerator: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "memotrack",
			Name:      "accelerator_entries",
			Help:      "Number of tracked instances with at least one accelerated call.",
		}),
		calltree: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "memotrack",
			Name:      "calltree_nodes",
			Help:      "Live node count per memoized function's call tree.",
		}, []string{"fn", "kind"}),
	}
	reg.MustRegister(ps.hits, ps.misses, ps.missingCalls, ps.evictions, ps.accelerator, ps.calltree)
	return ps
}

func (p *promSink) IncHit(fn string)         { p.hits.WithLabelValues(fn).Inc() }
func (p *promSink) IncMiss(fn string)        { p.misses.WithLabelValues(fn).Inc() }
func (p *promSink) IncMissingCall(fn string) { p.missingCalls.WithLabelValues(fn).Inc() }
func (p *promSink) IncEviction(fn string, n int) {
	p.evictions.WithLabelValues(fn).Add(float64(n))
}
func (p *promSink) SetAcceleratorEntries(n int) { p.accelerator.Set(float64(n)) }
func (p *promSink) SetCalltreeNodes(fn string, inner, leaf int) {
	p.calltree.WithLabelValues(fn, "inner").Set(float64(inner))
	p.calltree.WithLabelValues(fn, "leaf").Set(float64(leaf))
}

// Logger wraps the package-wide *zap.Logger used by pkg/memo for the
// handful of events worth a log line: eviction sweeps, non-determinism
// detection, accelerator growth and spill-mirror failures. It defaults to zap.NewNop() so
// memoized calls never pay for logging unless a caller opts in via
// memo.WithLogger.
type Logger struct {
	z *zap.Logger
}

// NewLogger wraps z, or zap.NewNop() when z is nil.
func NewLogger(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Nop is the default, silent Logger.
var Nop = NewLogger(nil)

func (l *Logger) EvictionSwept(fn string, removed int, maxAge uint64) {
	l.z.Debug("memotrack: eviction sweep",
		zap.String("fn", fn),
		zap.Int("removed", removed),
		zap.Uint64("max_age", maxAge),
	)
}

func (l *Logger) NonDeterminism(fn string, err error) {
	l.z.Warn("memotrack: memoized function may be non-deterministic",
		zap.String("fn", fn),
		zap.Error(err),
	)
}

func (l *Logger) AcceleratorGrew(instances int) {
	l.z.Debug("memotrack: accelerator grew", zap.Int("instances", instances))
}

func (l *Logger) SpillFailed(fn string, err error) {
	l.z.Warn("memotrack: spill mirror failed",
		zap.String("fn", fn),
		zap.Error(err),
	)
}
