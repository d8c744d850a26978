package trackeddemo

import (
	"github.com/voskan/memotrack/internal/digest"
	"github.com/voskan/memotrack/pkg/memo"
)

// Chain is a singly linked list of integers, used to demonstrate that a
// recursive memoized search over a tracked structure only depends on
// the nodes it actually reads.
type Chain struct {
	value int
	next  *Chain
}

// NewChain builds a chain from values, in order.
func NewChain(values ...int) *Chain {
	var head, tail *Chain
	for _, v := range values {
		node := &Chain{value: v}
		if head == nil {
			head = node
		} else {
			tail.next = node
		}
		tail = node
	}
	return head
}

// TrackedChain is the tracked surface for Chain. Its only tracked
// method is Value; Next is a plain structural accessor. Whether a
// traversal continues past a given node is never itself recorded —
// only the fact that Value was read and what it returned — so a cache
// hit for a node short-circuits the recursion into whatever comes
// after it, exactly as spec.md §8 scenario 4 requires.
type TrackedChain struct {
	handle memo.Handle[*Chain]
}

// TrackChain wraps the head of a chain for tracked traversal.
func TrackChain(c *Chain) TrackedChain {
	return TrackedChain{handle: memo.NewHandle(c)}
}

// Value returns this link's value, emitting a chainValueCall.
func (t *TrackedChain) Value() int {
	v := t.handle.Value.value
	t.handle.Emit(chainValueCall{}, digest.Of(v))
	return v
}

// Next returns the tracked wrapper for the following link, and false
// if t is the last link. The successor forks t's handle rather than
// minting a fresh, unattached one: Contains recurses by calling itself
// on the result of Next, and that recursive call attaches its own
// constraint to whatever sink the returned handle carries. Without
// forwarding t's sink, the successor's reads would vanish into a sink
// of their own instead of merging into the caller's constraint, and a
// node that returned true could get cached as depending on nothing
// past itself.
func (t *TrackedChain) Next() (TrackedChain, bool) {
	n := t.handle.Value.next
	if n == nil {
		return TrackedChain{}, false
	}
	return TrackedChain{handle: t.handle.Fork(n)}, true
}

func (t *TrackedChain) Key() digest.D128 { return digest.Zero }

func (t *TrackedChain) TryCall(call memo.Call) (digest.D128, bool) {
	if _, ok := call.(chainValueCall); !ok {
		return digest.D128{}, false
	}
	return t.handle.Resolve(call, func() digest.D128 {
		return digest.Of(t.handle.Value.value)
	}), true
}

func (t *TrackedChain) TryCallMut(memo.Call) bool { return false }

func (t *TrackedChain) Attach(sink memo.Sink) { t.handle.Attach(sink) }

type chainValueCall struct{}

func (chainValueCall) Digest() digest.D128 { return digest.OfString("trackeddemo.Chain.Value") }
func (chainValueCall) IsMutable() bool     { return false }

// Contains reports whether target appears anywhere in the chain rooted
// at head, memoizing per (node, target) against cache so that a node
// whose value does not match target, once cached, never re-traverses
// its successor on a later call with a structurally different (but
// value-equal at this node) chain. target is a plain hashed argument:
// it partitions the shared call tree so that searches for different
// targets never interfere with one another.
func Contains(cache *memo.Cache[bool], head TrackedChain, target int) bool {
	in := &memo.Args2[*TrackedChain, *memo.Hashed[int]]{
		Arg0: &head,
		Arg1: &memo.Hashed[int]{Value: target},
	}
	return memo.Memoize(cache, in, true,
		func(in *memo.Args2[*TrackedChain, *memo.Hashed[int]]) bool {
			if in.Arg0.Value() == in.Arg1.Value {
				return true
			}
			next, ok := in.Arg0.Next()
			if !ok {
				return false
			}
			return Contains(cache, next, in.Arg1.Value)
		})
}
