package trackeddemo

import (
	"testing"

	"github.com/voskan/memotrack/internal/observe"
	"github.com/voskan/memotrack/pkg/memo"
)

// TestDescribeSurvivesUnobservedResize reproduces spec.md §8 scenario 3:
// an image wider than 50 is classified "big" from width alone, and a
// later resize that only changes height leaves the cached verdict a hit.
func TestDescribeSurvivesUnobservedResize(t *testing.T) {
	cache := memo.NewCache[string]("describe")
	img := NewImage(60, 40)

	if got := Describe(cache, TrackImage(img)); got != "big" || observe.LastWasHit() {
		t.Fatalf("first Describe = %q, hit=%v, want big, miss", got, observe.LastWasHit())
	}

	img.Resize(60, 70)
	if got := Describe(cache, TrackImage(img)); got != "big" || !observe.LastWasHit() {
		t.Fatalf("second Describe after height-only resize = %q, hit=%v, want big, hit", got, observe.LastWasHit())
	}
}

// TestDescribeRecomputesOnWidthChange confirms the companion case: a
// resize that changes the observed dimension (width) does force a miss.
func TestDescribeRecomputesOnWidthChange(t *testing.T) {
	cache := memo.NewCache[string]("describe-width")
	img := NewImage(60, 40)

	Describe(cache, TrackImage(img))

	img.Resize(30, 40)
	if got := Describe(cache, TrackImage(img)); got != "small" || observe.LastWasHit() {
		t.Fatalf("Describe after width change = %q, hit=%v, want small, miss", got, observe.LastWasHit())
	}
}
