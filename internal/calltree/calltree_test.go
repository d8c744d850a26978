package calltree

import (
	"testing"

	"github.com/voskan/memotrack/internal/callseq"
	"github.com/voskan/memotrack/internal/calltype"
	"github.com/voskan/memotrack/internal/digest"
)

type fakeCall struct {
	tag string
}

func (f fakeCall) Digest() digest.D128 { return digest.OfString(f.tag) }
func (fakeCall) IsMutable() bool       { return false }

func seqOf(pairs ...[2]string) *callseq.Sequence {
	s := callseq.New()
	for _, p := range pairs {
		s.Insert(fakeCall{p[0]}, digest.OfString(p[1]), false)
	}
	return s
}

func oracleFor(results map[string]string) func(calltype.Call) digest.D128 {
	return func(c calltype.Call) digest.D128 {
		tag := c.(fakeCall).tag
		return digest.OfString(results[tag])
	}
}

func TestInsertThenGetRoundTrips(t *testing.T) {
	tree := New[string]()
	key := digest.OfString("key")

	if err := tree.Insert(key, seqOf([2]string{"width", "big"}), "hit-value"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, ok := tree.Get(key, oracleFor(map[string]string{"width": "big"}))
	if !ok || got != "hit-value" {
		t.Fatalf("Get = %v, %v", got, ok)
	}
}

func TestGetMissOnUnknownKey(t *testing.T) {
	tree := New[string]()
	_, ok := tree.Get(digest.OfString("absent"), oracleFor(nil))
	if ok {
		t.Fatalf("expected miss for a key never inserted")
	}
}

func TestInsertIdenticalSequenceIsAlreadyExists(t *testing.T) {
	tree := New[string]()
	key := digest.OfString("key")

	if err := tree.Insert(key, seqOf([2]string{"width", "big"}), "v1"); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if err := tree.Insert(key, seqOf([2]string{"width", "big"}), "v2"); err != ErrAlreadyExists {
		t.Fatalf("second identical Insert: got %v, want ErrAlreadyExists", err)
	}
}

func TestInsertBranchesOnDifferentResult(t *testing.T) {
	tree := New[string]()
	key := digest.OfString("key")

	if err := tree.Insert(key, seqOf([2]string{"width", "big"}), "wide"); err != nil {
		t.Fatalf("Insert big: %v", err)
	}
	if err := tree.Insert(key, seqOf([2]string{"width", "small"}), "narrow"); err != nil {
		t.Fatalf("Insert small: %v", err)
	}

	got, ok := tree.Get(key, oracleFor(map[string]string{"width": "big"}))
	if !ok || got != "wide" {
		t.Fatalf("Get(big) = %v, %v", got, ok)
	}
	got, ok = tree.Get(key, oracleFor(map[string]string{"width": "small"}))
	if !ok || got != "narrow" {
		t.Fatalf("Get(small) = %v, %v", got, ok)
	}
}

func TestInsertExtendingLeafSequenceIsAlreadyExists(t *testing.T) {
	tree := New[string]()
	key := digest.OfString("key")

	if err := tree.Insert(key, seqOf([2]string{"width", "big"}), "v1"); err != nil {
		t.Fatalf("Insert prefix: %v", err)
	}
	err := tree.Insert(key, seqOf([2]string{"width", "big"}, [2]string{"height", "tall"}), "v2")
	if err != ErrAlreadyExists {
		t.Fatalf("extending a leaf sequence: got %v, want ErrAlreadyExists (leaf already terminates here)", err)
	}
}

func TestInsertMissingCallSignalsNonDeterminism(t *testing.T) {
	tree := New[string]()
	key := digest.OfString("key")

	if err := tree.Insert(key, seqOf([2]string{"width", "big"}), "v1"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	err := tree.Insert(key, seqOf([2]string{"height", "tall"}), "v2")
	if err != ErrMissingCall {
		t.Fatalf("got %v, want ErrMissingCall", err)
	}
}

func TestRetainPrunesDeadLeavesAndOrphanedInner(t *testing.T) {
	tree := New[int]()
	key := digest.OfString("key")

	tree.Insert(key, seqOf([2]string{"width", "big"}), 1)

	before := tree.Stats()
	if before.LeafNodes != 1 || before.InnerNodes != 1 {
		t.Fatalf("before Stats = %+v", before)
	}

	tree.Retain(func(v *int) bool { return false })

	after := tree.Stats()
	if after.LeafNodes != 0 || after.InnerNodes != 0 || after.Roots != 0 {
		t.Fatalf("after Retain(false) Stats = %+v", after)
	}

	if _, ok := tree.Get(key, oracleFor(map[string]string{"width": "big"})); ok {
		t.Fatalf("expected miss after pruning the only entry")
	}
}

func TestRetainKeepsSurvivingBranch(t *testing.T) {
	tree := New[string]()
	key := digest.OfString("key")
	tree.Insert(key, seqOf([2]string{"width", "big"}), "wide")
	tree.Insert(key, seqOf([2]string{"width", "small"}), "narrow")

	tree.Retain(func(v *string) bool { return *v == "wide" })

	if _, ok := tree.Get(key, oracleFor(map[string]string{"width": "small"})); ok {
		t.Fatalf("pruned branch should no longer be reachable")
	}
	got, ok := tree.Get(key, oracleFor(map[string]string{"width": "big"}))
	if !ok || got != "wide" {
		t.Fatalf("surviving branch should remain: got %v, %v", got, ok)
	}
}
