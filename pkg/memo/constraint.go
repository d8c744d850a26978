package memo

import (
	"sync"

	"github.com/voskan/memotrack/internal/callseq"
	"github.com/voskan/memotrack/internal/digest"
)

// Constraint is the Sink attached to every tracked portion of an
// input during one memoized execution. It realizes spec §4.3's
// Recording: a deduplicated, order-preserving immutable-call sequence
// plus a plain ordered mutable-call list.
type Constraint struct {
	mu      sync.Mutex
	seq     *callseq.Sequence
	mutable []Call
}

// NewConstraint returns an empty Constraint, ready to attach.
func NewConstraint() *Constraint {
	return &Constraint{seq: callseq.New()}
}

// Emit implements Sink. Mutable calls are appended unconditionally —
// mutations are not idempotent in general, so no deduplication applies
// to them. Immutable calls are deduplicated by digest, with a debug-mode
// impurity assertion (see digest.StrictMode) when the same call digest
// previously recorded a different result.
func (c *Constraint) Emit(call Call, result digest.D128) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if call.IsMutable() {
		c.mutable = append(c.mutable, call)
		return true
	}
	return c.seq.Insert(call, result, digest.StrictMode)
}

// Take empties the constraint, handing the caller its immutable
// sequence (ready for calltree.Tree.Insert) and its mutable-call list
// (ready to be stored on a cache entry for replay). The constraint is
// reset to empty and may be reused, though Memoize never does so.
func (c *Constraint) Take() (*callseq.Sequence, []Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq, mutable := c.seq, c.mutable
	c.seq, c.mutable = callseq.New(), nil
	return seq, mutable
}
