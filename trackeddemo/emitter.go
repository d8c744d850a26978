package trackeddemo

import (
	"strconv"

	"github.com/voskan/memotrack/internal/digest"
	"github.com/voskan/memotrack/pkg/memo"
)

// Emitter is a plain, append-only log of strings. Its tracked surface
// exposes Emit as a mutable tracked method: a cache hit replays every
// recorded Emit call against whatever Emitter the current call attached,
// in the order they were first observed, rather than returning a value.
type Emitter struct {
	log []string
}

// NewEmitter creates an empty log.
func NewEmitter() *Emitter {
	return &Emitter{}
}

func (e *Emitter) emit(s string) {
	e.log = append(e.log, s)
}

// Log returns the entries appended so far.
func (e *Emitter) Log() []string {
	return e.log
}

// TrackedEmitter is the tracked surface for Emitter.
type TrackedEmitter struct {
	handle memo.Handle[*Emitter]
}

// TrackEmitter wraps e for use as a memoized function's tracked
// argument.
func TrackEmitter(e *Emitter) TrackedEmitter {
	return TrackedEmitter{handle: memo.NewHandle(e)}
}

// Emit appends s to the underlying log and records an emitCall, mutable
// so that it replays on a cache hit instead of being validated.
func (t *TrackedEmitter) Emit(s string) {
	t.handle.Value.emit(s)
	t.handle.Emit(emitCall{Text: s}, digest.Zero)
}

func (t *TrackedEmitter) Key() digest.D128 { return digest.Zero }

// TryCall never matches: Emitter exposes no immutable tracked method.
func (t *TrackedEmitter) TryCall(memo.Call) (digest.D128, bool) { return digest.D128{}, false }

func (t *TrackedEmitter) TryCallMut(call memo.Call) bool {
	c, ok := call.(emitCall)
	if !ok {
		return false
	}
	t.handle.Value.emit(c.Text)
	return true
}

func (t *TrackedEmitter) Attach(sink memo.Sink) { t.handle.Attach(sink) }

type emitCall struct {
	Text string
}

func (c emitCall) Digest() digest.D128 {
	return digest.Combine(digest.OfString("trackeddemo.Emitter.Emit"), digest.OfString(c.Text))
}
func (emitCall) IsMutable() bool { return true }

// RunEmitterDemo emits "a", "b", then the log's length so far, and
// returns a fixed marker. A second call against a fresh Emitter with
// the same cache hits and replays all three emits onto that Emitter
// instead of re-running the body.
func RunEmitterDemo(cache *memo.Cache[string], e TrackedEmitter) string {
	return memo.Memoize(cache, &memo.Args1[*TrackedEmitter]{Arg0: &e}, true,
		func(in *memo.Args1[*TrackedEmitter]) string {
			in.Arg0.Emit("a")
			in.Arg0.Emit("b")
			in.Arg0.Emit(strconv.Itoa(len(in.Arg0.handle.Value.Log())))
			return "done"
		})
}
