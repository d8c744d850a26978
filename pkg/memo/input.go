package memo

import "github.com/voskan/memotrack/internal/digest"

// Input is the contract a memoized function's composite argument type
// satisfies: hashing its key portion, dispatching an oracle call
// against whichever tracked portion it belongs to, replaying a mutable
// call, and attaching a sink to every tracked portion for the duration
// of one execution. Memoize is generic over Input so that the pointer
// passed at a call site also flows, unmodified, into the user closure.
type Input interface {
	Key() digest.D128
	Call(call Call) digest.D128
	CallMut(call Call)
	Attach(sink Sink)
}

// ArgSlot is the contract a single argument of a composite Input
// satisfies, whether it is a plain hashed value (Hashed[V]) or a
// tracked handle (a hand-written or generated wrapper embedding
// Handle[T]). ArgN combines N slots into an Input.
type ArgSlot interface {
	Key() digest.D128
	TryCall(call Call) (digest.D128, bool)
	TryCallMut(call Call) bool
	Attach(sink Sink)
}

// Hashed adapts a plain, non-tracked argument into an ArgSlot. Its key
// contribution is the digest of Value; it never matches any call, since
// a hashed argument exposes no tracked surface.
type Hashed[V any] struct {
	Value V
}

func (h *Hashed[V]) Key() digest.D128                    { return digest.Of(h.Value) }
func (h *Hashed[V]) TryCall(Call) (digest.D128, bool)    { return digest.D128{}, false }
func (h *Hashed[V]) TryCallMut(Call) bool                { return false }
func (h *Hashed[V]) Attach(Sink)                         {}

// HashedInput adapts a single plain value into a full Input whose
// call-tree collapses to one leaf per key — the boundary behavior
// spec.md §8 describes for a memoized function with zero tracked
// arguments.
type HashedInput[V any] struct {
	Hashed[V]
}

func (h *HashedInput[V]) Call(Call) digest.D128 { return digest.Zero }
func (h *HashedInput[V]) CallMut(Call)          {}

// NewHashedInput wraps v for use as the sole argument of a plain-hashed
// memoized function.
func NewHashedInput[V any](v V) *HashedInput[V] {
	return &HashedInput[V]{Hashed: Hashed[V]{Value: v}}
}

const unmatchedCall = "memotrack: call does not belong to any argument of this memoized function"

// Args1 composes a single ArgSlot into an Input. Mostly useful when the
// sole argument is itself tracked (a HashedInput is simpler for a
// single plain argument).
type Args1[A ArgSlot] struct {
	Arg0 A
}

func (a *Args1[A]) Key() digest.D128 { return a.Arg0.Key() }
func (a *Args1[A]) Call(call Call) digest.D128 {
	if d, ok := a.Arg0.TryCall(call); ok {
		return d
	}
	panic(unmatchedCall)
}
func (a *Args1[A]) CallMut(call Call) {
	if a.Arg0.TryCallMut(call) {
		return
	}
	panic(unmatchedCall)
}
func (a *Args1[A]) Attach(sink Sink) { a.Arg0.Attach(sink) }

// Args2 composes two ArgSlots into an Input for a two-argument
// memoized function.
type Args2[A, B ArgSlot] struct {
	Arg0 A
	Arg1 B
}

func (a *Args2[A, B]) Key() digest.D128 {
	return digest.Combine(a.Arg0.Key(), a.Arg1.Key())
}
func (a *Args2[A, B]) Call(call Call) digest.D128 {
	if d, ok := a.Arg0.TryCall(call); ok {
		return d
	}
	if d, ok := a.Arg1.TryCall(call); ok {
		return d
	}
	panic(unmatchedCall)
}
func (a *Args2[A, B]) CallMut(call Call) {
	if a.Arg0.TryCallMut(call) || a.Arg1.TryCallMut(call) {
		return
	}
	panic(unmatchedCall)
}
func (a *Args2[A, B]) Attach(sink Sink) {
	a.Arg0.Attach(sink)
	a.Arg1.Attach(sink)
}

// Args3 composes three ArgSlots into an Input.
type Args3[A, B, C ArgSlot] struct {
	Arg0 A
	Arg1 B
	Arg2 C
}

func (a *Args3[A, B, C]) Key() digest.D128 {
	return digest.Combine(a.Arg0.Key(), a.Arg1.Key(), a.Arg2.Key())
}
func (a *Args3[A, B, C]) Call(call Call) digest.D128 {
	if d, ok := a.Arg0.TryCall(call); ok {
		return d
	}
	if d, ok := a.Arg1.TryCall(call); ok {
		return d
	}
	if d, ok := a.Arg2.TryCall(call); ok {
		return d
	}
	panic(unmatchedCall)
}
func (a *Args3[A, B, C]) CallMut(call Call) {
	if a.Arg0.TryCallMut(call) || a.Arg1.TryCallMut(call) || a.Arg2.TryCallMut(call) {
		return
	}
	panic(unmatchedCall)
}
func (a *Args3[A, B, C]) Attach(sink Sink) {
	a.Arg0.Attach(sink)
	a.Arg1.Attach(sink)
	a.Arg2.Attach(sink)
}

// Args4 composes four ArgSlots into an Input.
type Args4[A, B, C, D ArgSlot] struct {
	Arg0 A
	Arg1 B
	Arg2 C
	Arg3 D
}

func (a *Args4[A, B, C, D]) Key() digest.D128 {
	return digest.Combine(a.Arg0.Key(), a.Arg1.Key(), a.Arg2.Key(), a.Arg3.Key())
}
func (a *Args4[A, B, C, D]) Call(call Call) digest.D128 {
	if d, ok := a.Arg0.TryCall(call); ok {
		return d
	}
	if d, ok := a.Arg1.TryCall(call); ok {
		return d
	}
	if d, ok := a.Arg2.TryCall(call); ok {
		return d
	}
	if d, ok := a.Arg3.TryCall(call); ok {
		return d
	}
	panic(unmatchedCall)
}
func (a *Args4[A, B, C, D]) CallMut(call Call) {
	if a.Arg0.TryCallMut(call) || a.Arg1.TryCallMut(call) || a.Arg2.TryCallMut(call) || a.Arg3.TryCallMut(call) {
		return
	}
	panic(unmatchedCall)
}
func (a *Args4[A, B, C, D]) Attach(sink Sink) {
	a.Arg0.Attach(sink)
	a.Arg1.Attach(sink)
	a.Arg2.Attach(sink)
	a.Arg3.Attach(sink)
}

// Args5 composes five ArgSlots into an Input.
type Args5[A, B, C, D, E ArgSlot] struct {
	Arg0 A
	Arg1 B
	Arg2 C
	Arg3 D
	Arg4 E
}

func (a *Args5[A, B, C, D, E]) Key() digest.D128 {
	return digest.Combine(a.Arg0.Key(), a.Arg1.Key(), a.Arg2.Key(), a.Arg3.Key(), a.Arg4.Key())
}
func (a *Args5[A, B, C, D, E]) Call(call Call) digest.D128 {
	if d, ok := a.Arg0.TryCall(call); ok {
		return d
	}
	if d, ok := a.Arg1.TryCall(call); ok {
		return d
	}
	if d, ok := a.Arg2.TryCall(call); ok {
		return d
	}
	if d, ok := a.Arg3.TryCall(call); ok {
		return d
	}
	if d, ok := a.Arg4.TryCall(call); ok {
		return d
	}
	panic(unmatchedCall)
}
func (a *Args5[A, B, C, D, E]) CallMut(call Call) {
	if a.Arg0.TryCallMut(call) || a.Arg1.TryCallMut(call) || a.Arg2.TryCallMut(call) ||
		a.Arg3.TryCallMut(call) || a.Arg4.TryCallMut(call) {
		return
	}
	panic(unmatchedCall)
}
func (a *Args5[A, B, C, D, E]) Attach(sink Sink) {
	a.Arg0.Attach(sink)
	a.Arg1.Attach(sink)
	a.Arg2.Attach(sink)
	a.Arg3.Attach(sink)
	a.Arg4.Attach(sink)
}
