package trackeddemo

import (
	"testing"

	"github.com/voskan/memotrack/internal/observe"
	"github.com/voskan/memotrack/pkg/memo"
)

// TestContainsSharesCacheAcrossChains reproduces spec.md §8 scenario 4:
// [1,2,4,5] and [1,2,4] both contain 2 at the second link, and a search
// over the second chain hits the very same cache entry the first
// chain's search recorded, without ever traversing past its own head.
func TestContainsSharesCacheAcrossChains(t *testing.T) {
	cache := memo.NewCache[bool]("contains")

	long := TrackChain(NewChain(1, 2, 4, 5))
	if got := Contains(cache, long, 2); !got || observe.LastWasHit() {
		t.Fatalf("Contains(long, 2) = %v, hit=%v, want true, miss", got, observe.LastWasHit())
	}

	short := TrackChain(NewChain(1, 2, 4))
	if got := Contains(cache, short, 2); !got || !observe.LastWasHit() {
		t.Fatalf("Contains(short, 2) = %v, hit=%v, want true, hit", got, observe.LastWasHit())
	}
}

// TestContainsMissingValue confirms a search that reaches the end of the
// chain without a match returns false, and that distinct targets occupy
// distinct regions of the shared cache (changing target never produces a
// false hit from an unrelated search over the same chain).
func TestContainsMissingValue(t *testing.T) {
	cache := memo.NewCache[bool]("contains-miss")

	head := TrackChain(NewChain(1, 2, 4))
	if got := Contains(cache, head, 99); got {
		t.Fatalf("Contains(head, 99) = true, want false")
	}

	head2 := TrackChain(NewChain(1, 2, 4))
	if got := Contains(cache, head2, 4); !got {
		t.Fatalf("Contains(head2, 4) = false, want true")
	}
}

// TestContainsDoesNotFalsePositiveAcrossDivergentChains covers two
// chains that share only their first link and then diverge. A naive
// traversal that loses track of which constraint a successor's reads
// belong to can cache "true" for the shared first link without ever
// recording that the true answer depended on the second link's value,
// letting an unrelated chain with a different second link inherit the
// stale hit.
func TestContainsDoesNotFalsePositiveAcrossDivergentChains(t *testing.T) {
	cache := memo.NewCache[bool]("contains-divergent")

	first := TrackChain(NewChain(5, 2))
	if got := Contains(cache, first, 2); !got {
		t.Fatalf("Contains(first, 2) = false, want true")
	}

	second := TrackChain(NewChain(5, 9))
	if got := Contains(cache, second, 2); got {
		t.Fatalf("Contains(second, 2) = true, want false")
	}
}
