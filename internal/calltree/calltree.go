// Package calltree implements the compressed trie that stores, for a
// given memoized function and key digest, a family of
// (call-sequence, output) pairs and answers membership queries for a new
// input in time proportional to the depth of the matching branch.
//
// Nodes are allocated in two slab-style arenas (inner nodes, leaf nodes)
// so that node identity survives Retain's bottom-up pruning without
// invalidating sibling indices, the same trick the original Rust runtime
// gets from the `slab` crate.
//
// © 2025 memotrack authors. MIT License.
package calltree

import (
	"errors"

	"github.com/voskan/memotrack/internal/callseq"
	"github.com/voskan/memotrack/internal/calltype"
	"github.com/voskan/memotrack/internal/digest"
)

// ErrAlreadyExists is returned by Insert when a call sequence equal to,
// or a prefix of, the one being inserted was already present.
// This is benign: a concurrent writer raced ahead of us to a semantically
// identical conclusion.
var ErrAlreadyExists = errors.New("calltree: sequence already exists")

// ErrMissingCall is returned by Insert when, while still walking an
// existing path, the new sequence does not contain the call an inner
// node on that path is keyed on. This points at non-determinism in the
// memoized function producing the sequence: replaying earlier-observed
// calls should always encounter the same call at this point.
var ErrMissingCall = errors.New("calltree: missing call, memoized function may be non-deterministic")

type nodeKind uint8

const (
	kindInner nodeKind = iota
	kindLeaf
)

// nodeRef identifies either an inner or a leaf node.
type nodeRef struct {
	kind nodeKind
	idx  int
}

type innerNode struct {
	call     calltype.Call
	children int
	parent   *int // index into inner slab, nil at the root of a branch
	alive    bool
}

type leafNode[T any] struct {
	value  T
	parent *int
	alive  bool
}

type edgeKey struct {
	inner  int
	result digest.D128
}

// Tree stores every recorded call sequence for one memoized function,
// across every key digest that function has been called with.
type Tree[T any] struct {
	inner     []innerNode
	innerFree []int
	leaves    []leafNode[T]
	leafFree  []int

	start map[digest.D128]nodeRef
	edges map[edgeKey]nodeRef
}

// New creates an empty call tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{
		start: make(map[digest.D128]nodeRef),
		edges: make(map[edgeKey]nodeRef),
	}
}

func (t *Tree[T]) allocInner(n innerNode) int {
	if len(t.innerFree) > 0 {
		i := t.innerFree[len(t.innerFree)-1]
		t.innerFree = t.innerFree[:len(t.innerFree)-1]
		t.inner[i] = n
		return i
	}
	t.inner = append(t.inner, n)
	return len(t.inner) - 1
}

func (t *Tree[T]) allocLeaf(n leafNode[T]) int {
	if len(t.leafFree) > 0 {
		i := t.leafFree[len(t.leafFree)-1]
		t.leafFree = t.leafFree[:len(t.leafFree)-1]
		t.leaves[i] = n
		return i
	}
	t.leaves = append(t.leaves, n)
	return len(t.leaves) - 1
}

// Get retrieves the output value for the given key digest by walking the
// tree with the supplied oracle: at each inner node, oracle is asked for
// the result digest of that node's call against the caller's current
// input, and the matching outgoing edge is followed. Returns false if no
// entry for keyDigest exists, or if the walk runs off the edge of the
// tree (no oracle result matches any outgoing edge).
func (t *Tree[T]) Get(keyDigest digest.D128, oracle func(calltype.Call) digest.D128) (T, bool) {
	var zero T
	cursor, ok := t.start[keyDigest]
	if !ok {
		return zero, false
	}
	for {
		switch cursor.kind {
		case kindLeaf:
			leaf := &t.leaves[cursor.idx]
			return leaf.value, true
		case kindInner:
			node := &t.inner[cursor.idx]
			result := oracle(node.call)
			next, ok := t.edges[edgeKey{inner: cursor.idx, result: result}]
			if !ok {
				return zero, false
			}
			cursor = next
		}
	}
}

// Insert adds a key digest and its observed call sequence, together with
// the value produced while observing it, into the tree.
//
// Three regimes:
//
//  1. Prefix exists: the sequence's extracted result digests follow an
//     existing path. If that path reaches a leaf, whether the sequence
//     still has entries or ends there too, the sequence or a prefix of
//     it was already present: ErrAlreadyExists.
//  2. Branching: either the key has no entry yet, or no outgoing edge of
//     the current inner node carries the extracted result digest; new
//     inner nodes are created for the remaining entries (if any), ending
//     in a fresh leaf.
//  3. Missing call: while still on the existing path, the new sequence
//     does not contain (or has run out before) the call the current
//     inner node is keyed on — ErrMissingCall (non-determinism signal).
func (t *Tree[T]) Insert(keyDigest digest.D128, sequence *callseq.Sequence, value T) error {
	cursor, haveCursor := t.start[keyDigest]
	var predecessor *edgeKey

	for {
		if predecessor == nil && haveCursor {
			if cursor.kind != kindInner {
				return ErrAlreadyExists
			}
			node := &t.inner[cursor.idx]
			ret, ok := sequence.Extract(node.call.Digest())
			if !ok {
				return ErrMissingCall
			}
			key := edgeKey{inner: cursor.idx, result: ret}
			if next, ok := t.edges[key]; ok {
				// Still on an existing path.
				cursor = next
				continue
			}
			// Falling off the tree: start building new nodes from here.
			predecessor = &key
			continue
		}

		call, ret, ok := sequence.Next()
		if !ok {
			break
		}

		var parent *int
		if predecessor != nil {
			p := predecessor.inner
			parent = &p
		}
		newInnerIdx := t.allocInner(innerNode{call: call, parent: parent, alive: true})
		newRef := nodeRef{kind: kindInner, idx: newInnerIdx}
		t.link(!haveCursor, keyDigest, predecessor, newRef)

		nextKey := edgeKey{inner: newInnerIdx, result: ret}
		predecessor = &nextKey
		cursor = newRef
		haveCursor = true
	}

	if predecessor == nil && haveCursor {
		return ErrAlreadyExists
	}

	var leafParent *int
	if predecessor != nil {
		p := predecessor.inner
		leafParent = &p
	}
	leafIdx := t.allocLeaf(leafNode[T]{value: value, parent: leafParent, alive: true})
	leafRef := nodeRef{kind: kindLeaf, idx: leafIdx}
	t.link(!haveCursor, keyDigest, predecessor, leafRef)

	return nil
}

// link records a new edge (or the tree's start entry) pointing at `to`.
func (t *Tree[T]) link(atStart bool, keyDigest digest.D128, from *edgeKey, to nodeRef) {
	if atStart {
		t.start[keyDigest] = to
	}
	if from != nil {
		t.inner[from.inner].children++
		t.edges[*from] = to
	}
}

// Retain removes every call sequence from the tree for which keep
// returns false, given that sequence's output value (keep may mutate the
// value in place, e.g. to bump an age counter, before deciding). Pruning
// walks leaf-to-root: an orphaned inner node (whose last surviving child
// was just removed) is deleted in turn, all the way up to the nearest
// surviving ancestor.
func (t *Tree[T]) Retain(keep func(value *T) bool) {
	for i := range t.leaves {
		leaf := &t.leaves[i]
		if !leaf.alive {
			continue
		}
		if keep(&leaf.value) {
			continue
		}
		leaf.alive = false
		t.leafFree = append(t.leafFree, i)

		parent := leaf.parent
		for parent != nil {
			node := &t.inner[*parent]
			if node.children > 1 {
				node.children--
				break
			}
			node.alive = false
			t.innerFree = append(t.innerFree, *parent)
			parent = node.parent
		}
	}

	for k, ref := range t.edges {
		if !t.exists(ref) {
			delete(t.edges, k)
		}
	}
	for k, ref := range t.start {
		if !t.exists(ref) {
			delete(t.start, k)
		}
	}
}

func (t *Tree[T]) exists(ref nodeRef) bool {
	switch ref.kind {
	case kindInner:
		return ref.idx < len(t.inner) && t.inner[ref.idx].alive
	case kindLeaf:
		return ref.idx < len(t.leaves) && t.leaves[ref.idx].alive
	default:
		return false
	}
}

// Stats reports coarse structural counts for diagnostics
// (cmd/memotrack-inspect, internal/telemetry gauges).
type Stats struct {
	InnerNodes int
	LeafNodes  int
	Edges      int
	Roots      int
}

// Stats walks the live node counts. It is O(n) and intended for
// diagnostics, not the hot path.
func (t *Tree[T]) Stats() Stats {
	s := Stats{Edges: len(t.edges), Roots: len(t.start)}
	for i := range t.inner {
		if t.inner[i].alive {
			s.InnerNodes++
		}
	}
	for i := range t.leaves {
		if t.leaves[i].alive {
			s.LeafNodes++
		}
	}
	return s
}
