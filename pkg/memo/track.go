package memo

import (
	"github.com/voskan/memotrack/internal/accelerate"
	"github.com/voskan/memotrack/internal/digest"
)

// Handle is the state every hand-written (or generated) tracked wrapper
// embeds by value: a reference to the underlying value, the instance id
// that keys the accelerator, and the sink attached for the duration of
// one memoized execution. Handle is copied wherever the tracked wrapper
// that embeds it is copied, exactly like the runtime's Copy Tracked<T>
// handle — Attach mutates only the copy it is called on, so attaching a
// handle to a nested memoized call's constraint never disturbs the
// outer call's view of the same instance.
type Handle[T any] struct {
	Value T
	id    uint64
	sink  Sink
}

// NewHandle mints a fresh instance id and wraps v for tracking. Call
// this once per logical value; every copy of the returned Handle shares
// the same id.
func NewHandle[T any](v T) Handle[T] {
	return Handle[T]{Value: v, id: accelerate.NextID()}
}

// ID returns the instance id that keys this handle's accelerator slot.
func (h *Handle[T]) ID() uint64 { return h.id }

// HasSink reports whether a sink is currently attached.
func (h *Handle[T]) HasSink() bool { return h.sink != nil }

// Fork mints a fresh accelerator instance id for v while carrying h's
// currently attached sink forward, so that calls recorded against the
// forked handle still surface to whichever constraint h itself reports
// into. Use this wherever traversing a tracked value produces a
// successor tracked value in the same call (e.g. following a linked
// structure one node at a time) instead of minting an unattached handle
// that would silently drop its observations.
func (h *Handle[T]) Fork(v T) Handle[T] {
	return Handle[T]{Value: v, id: accelerate.NextID(), sink: h.sink}
}

// Attach wires sink into this handle, merging with any sink already
// present so an enclosing memoized call still observes calls a nested
// one makes through the same tracked instance.
func (h *Handle[T]) Attach(sink Sink) {
	if h.sink != nil {
		h.sink = MergedSink{Prev: h.sink, Current: sink}
	} else {
		h.sink = sink
	}
}

// Resolve runs fn, a closure that invokes one tracked method on Value
// and hashes its result, through the accelerator keyed on this handle's
// instance id and the call's own digest, then reports the call and its
// result digest to the attached sink, if any, so that an enclosing
// memoized call also depends on what a nested call's validation read.
// Used by the oracle dispatch (the tracked type's TryCall method), never
// by a live surface method, which always invokes directly so its caller
// gets a real value.
func (h *Handle[T]) Resolve(call Call, fn func() digest.D128) digest.D128 {
	result := accelerate.Once(h.id, call.Digest(), fn)
	h.Emit(call, result)
	return result
}

// Emit records an observed call, and for immutable calls the digest of
// its result, into the attached sink. A no-op when no sink is attached,
// i.e. when the tracked value is used outside of any memoized call.
func (h *Handle[T]) Emit(call Call, result digest.D128) {
	if h.sink != nil {
		h.sink.Emit(call, result)
	}
}
