package digest

import "testing"

func TestOfIsDeterministic(t *testing.T) {
	a := Of([]int{1, 2, 3})
	b := Of([]int{1, 2, 3})
	if a != b {
		t.Fatalf("Of not deterministic: %v != %v", a, b)
	}
}

func TestOfDistinguishesValues(t *testing.T) {
	a := Of(1)
	b := Of(2)
	if a == b {
		t.Fatalf("Of(1) == Of(2): %v", a)
	}
}

func TestOfStringMatchesOfBytes(t *testing.T) {
	s := "hello, memotrack"
	if OfString(s) != OfBytes([]byte(s)) {
		t.Fatalf("OfString and OfBytes disagree for %q", s)
	}
}

func TestCombineOrderSensitive(t *testing.T) {
	a := Combine(OfString("x"), OfString("y"))
	b := Combine(OfString("y"), OfString("x"))
	if a == b {
		t.Fatalf("Combine should be order-sensitive, got equal digests")
	}
}

func TestCombineDeterministic(t *testing.T) {
	parts := []D128{OfString("a"), OfString("b"), OfString("c")}
	a := Combine(parts...)
	b := Combine(parts...)
	if a != b {
		t.Fatalf("Combine not deterministic: %v != %v", a, b)
	}
}

func TestZeroIsZero(t *testing.T) {
	if !Zero.IsZero() {
		t.Fatalf("Zero.IsZero() = false")
	}
	if OfString("not zero").IsZero() {
		t.Fatalf("non-zero digest reported as zero")
	}
}

func TestBytesRoundTripsDistinctly(t *testing.T) {
	a := OfString("alpha").Bytes()
	b := OfString("beta").Bytes()
	if a == b {
		t.Fatalf("Bytes collided for distinct digests")
	}
	if OfString("alpha").Bytes() != a {
		t.Fatalf("Bytes not deterministic")
	}
}

func TestOfPanicsOnUnhashableValue(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Of to panic on a channel value")
		}
	}()
	Of(make(chan int))
}
