package trackeddemo

import (
	"testing"

	"github.com/voskan/memotrack/internal/observe"
	"github.com/voskan/memotrack/pkg/memo"
)

// TestEvalCalcInterpreterScenario reproduces spec.md §8 scenario 2 in
// full: alpha reads beta, beta initially reads nothing further, and a
// later rewrite of beta to read gamma must force alpha to recompute —
// even though nothing ever called Evict in between.
func TestEvalCalcInterpreterScenario(t *testing.T) {
	files := NewFiles()
	files.Write("alpha", "2 + eval beta")
	files.Write("beta", "2 + 3")
	files.Write("gamma", "8 + 3")
	cache := memo.NewCache[int]("eval")

	// Each step mints its own tracked handle over files: Eval is a
	// top-level entry point here, not a recursive continuation of a
	// prior call, so it must see a fresh accelerator instance the same
	// way two unrelated requests sharing one *Files would.
	if got := Eval(cache, Track(files), "alpha"); got != 7 || observe.LastWasHit() {
		t.Fatalf("first eval alpha = %d, hit=%v, want 7, miss", got, observe.LastWasHit())
	}

	// gamma is rewritten but alpha's cached branch never read it, so
	// this must not disturb the cached verdict.
	files.Write("gamma", "39 + 3")
	if got := Eval(cache, Track(files), "alpha"); got != 7 || !observe.LastWasHit() {
		t.Fatalf("second eval alpha = %d, hit=%v, want 7, hit", got, observe.LastWasHit())
	}

	// beta now reads gamma; alpha must recompute through the new chain.
	files.Write("beta", "4 + eval gamma")
	if got := Eval(cache, Track(files), "alpha"); got != 48 || observe.LastWasHit() {
		t.Fatalf("third eval alpha = %d, hit=%v, want 48, miss", got, observe.LastWasHit())
	}
}

// TestEvalRejectsBadTerm documents the panic path for a malformed script,
// grounded on the same int-or-"eval "-prefixed term grammar calc.rs uses.
func TestEvalRejectsBadTerm(t *testing.T) {
	files := NewFiles()
	files.Write("broken", "2 + nonsense")
	tracked := Track(files)
	cache := memo.NewCache[int]("eval-bad")

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a malformed term")
		}
	}()
	Eval(cache, tracked, "broken")
}
