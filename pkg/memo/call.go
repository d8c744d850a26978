// Package memo is the public surface of the memoization runtime: the
// Cache a memoized function owns, the Memoize entry point, the Constraint
// sink tracked handles emit into, and the Input/ArgSlot protocol that
// lets hand-written (or generated) glue route key hashing, oracle
// dispatch and sink attachment through a memoized call's arguments.
//
// © 2025 memotrack authors. MIT License.
package memo

import (
	"github.com/voskan/memotrack/internal/calltype"
	"github.com/voskan/memotrack/internal/digest"
)

// Call is re-exported from internal/calltype so that generated tracked
// surfaces never need to import an internal package directly.
type Call = calltype.Call

// UnitCall is the call representation for inputs with no tracked
// surface at all.
type UnitCall = calltype.UnitCall

// Sink is the interface tracked handles emit observed calls into.
// Returning false signals "already deduplicated by this sink" — the
// handle should not bother computing anything further for this call.
type Sink interface {
	Emit(call Call, result digest.D128) bool
}

// MergedSink composes two sinks so that a call observed by a nested
// memoized call is also surfaced to the enclosing one. Current sees the
// call first (and may deduplicate it for its own purposes); if Current
// accepted it, Prev is given the chance too.
type MergedSink struct {
	Prev    Sink
	Current Sink
}

// Emit implements Sink.
func (m MergedSink) Emit(call Call, result digest.D128) bool {
	if !m.Current.Emit(call, result) {
		return false
	}
	if m.Prev != nil {
		m.Prev.Emit(call, result)
	}
	return true
}
