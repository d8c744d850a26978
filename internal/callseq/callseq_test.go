package callseq

import (
	"testing"

	"github.com/voskan/memotrack/internal/digest"
)

type fakeCall struct {
	tag string
}

func (f fakeCall) Digest() digest.D128 { return digest.OfString(f.tag) }
func (fakeCall) IsMutable() bool       { return false }

func TestInsertDeduplicatesByDigest(t *testing.T) {
	s := New()
	if ok := s.Insert(fakeCall{"a"}, digest.OfString("1"), false); !ok {
		t.Fatalf("first insert of a fresh call should succeed")
	}
	if ok := s.Insert(fakeCall{"a"}, digest.OfString("1"), false); ok {
		t.Fatalf("second insert of the same call digest should be deduplicated")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestInsertStrictModePanicsOnDivergence(t *testing.T) {
	s := New()
	s.Insert(fakeCall{"a"}, digest.OfString("1"), true)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on differing result for the same call digest")
		}
	}()
	s.Insert(fakeCall{"a"}, digest.OfString("2"), true)
}

func TestNextYieldsInsertionOrder(t *testing.T) {
	s := New()
	s.Insert(fakeCall{"a"}, digest.OfString("1"), false)
	s.Insert(fakeCall{"b"}, digest.OfString("2"), false)
	s.Insert(fakeCall{"c"}, digest.OfString("3"), false)

	var got []string
	for {
		c, _, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, c.(fakeCall).tag)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestExtractRemovesWithoutDisturbingOrder(t *testing.T) {
	s := New()
	s.Insert(fakeCall{"a"}, digest.OfString("1"), false)
	s.Insert(fakeCall{"b"}, digest.OfString("2"), false)

	result, ok := s.Extract(fakeCall{"a"}.Digest())
	if !ok || result != digest.OfString("1") {
		t.Fatalf("Extract(a) = %v, %v", result, ok)
	}
	if _, ok := s.Extract(fakeCall{"a"}.Digest()); ok {
		t.Fatalf("Extract should not find an already-extracted call again")
	}

	c, _, ok := s.Next()
	if !ok || c.(fakeCall).tag != "b" {
		t.Fatalf("Next() after Extract should still yield b, got %v, %v", c, ok)
	}
}

func TestExtractUnknownDigest(t *testing.T) {
	s := New()
	if _, ok := s.Extract(digest.OfString("missing")); ok {
		t.Fatalf("Extract on empty sequence should fail")
	}
}
