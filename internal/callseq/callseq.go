// Package callseq implements the ordered, deduplicated immutable-call
// sequence described in the runtime's constraint model: simultaneously an
// ordered list (for reproducible traversal when a memoized call builds a
// fresh call-tree branch) and a hash-addressed index (for O(1) lookup when
// walking an existing branch asks for a call that is still pending).
//
// © 2025 memotrack authors. MIT License.
package callseq

import (
	"github.com/voskan/memotrack/internal/calltype"
	"github.com/voskan/memotrack/internal/digest"
)

// Entry is a Call together with the digest of the result it returned when
// it was observed.
type Entry struct {
	Call   calltype.Call
	Result digest.D128
}

// Sequence is a deduplicated, order-preserving collection of (call,
// result digest) pairs. The zero value is ready to use.
type Sequence struct {
	// vec holds the raw entries, in first-insertion order. A consumed
	// slot (taken by Next or Extract) becomes nil without disturbing the
	// order or indices of its neighbours.
	vec []*Entry
	// index maps a call's digest to its slot in vec.
	index map[digest.D128]int
	// cursor is the next slot Next() will examine.
	cursor int
}

// New creates an empty sequence.
func New() *Sequence {
	return &Sequence{index: make(map[digest.D128]int)}
}

// Len reports the number of entries ever inserted, including consumed
// ones; vec's capacity is never shrunk.
func (s *Sequence) Len() int { return len(s.vec) }

// Insert records a call and the digest of its result. It returns false,
// without mutating anything, if a call with the same digest was already
// recorded — callers (Constraint.Emit) interpret false as "already
// deduplicated by this sink". When strict is true and the previously
// recorded result digest differs from result, Insert panics: that is the
// impurity signal from spec §4.3 ("found differing return values").
func (s *Sequence) Insert(call calltype.Call, result digest.D128, strict bool) bool {
	callDigest := call.Digest()
	if i, ok := s.index[callDigest]; ok {
		if strict {
			if prev := s.vec[i]; prev != nil && prev.Result != result {
				panic("memotrack: found differing return values for the same call; is this tracked method pure?")
			}
		}
		return false
	}
	i := len(s.vec)
	s.vec = append(s.vec, &Entry{Call: call, Result: result})
	s.index[callDigest] = i
	return true
}

// Next yields the next pending (call, result) pair in insertion order,
// skipping slots already consumed by Next or Extract. It returns false
// once the sequence is exhausted.
func (s *Sequence) Next() (calltype.Call, digest.D128, bool) {
	for s.cursor < len(s.vec) {
		e := s.vec[s.cursor]
		s.vec[s.cursor] = nil
		s.cursor++
		if e != nil {
			return e.Call, e.Result, true
		}
	}
	return nil, digest.D128{}, false
}

// Extract returns the result digest for an arbitrary upcoming call,
// identified by its digest, removing it from the sequence without
// disturbing the ordering of the rest or the cursor's position relative
// to still-pending entries.
func (s *Sequence) Extract(callDigest digest.D128) (digest.D128, bool) {
	i, ok := s.index[callDigest]
	if !ok {
		return digest.D128{}, false
	}
	e := s.vec[i]
	s.vec[i] = nil
	if e == nil {
		return digest.D128{}, false
	}
	return e.Result, true
}
