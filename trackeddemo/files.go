// Package trackeddemo hand-writes the tracked-type glue that a
// #[track]/#[memoize] macro pair would otherwise generate: one wrapper
// per tracked type embedding memo.Handle[T], one Call-implementing
// struct per tracked method, and the oracle dispatch (TryCall/TryCallMut)
// that switches over those structs. Grounded on the runtime's own
// examples (original_source/examples/{calc,image}.rs) and spec.md §8's
// worked scenarios.
//
// © 2025 memotrack authors. MIT License.
package trackeddemo

import (
	"github.com/voskan/memotrack/internal/digest"
	"github.com/voskan/memotrack/pkg/memo"
)

// Files is an in-memory store of named scripts, grounded on the
// runtime's calc.rs example. Write is a plain mutation performed by the
// test driver directly on the owned value, never through a tracked
// handle — only Read is tracked.
type Files struct {
	byPath map[string]string
}

// NewFiles creates an empty file store.
func NewFiles() *Files {
	return &Files{byPath: make(map[string]string)}
}

// Write stores text under path, overwriting any previous content.
func (f *Files) Write(path, text string) {
	f.byPath[path] = text
}

func (f *Files) read(path string) string {
	return f.byPath[path]
}

// TrackedFiles is the tracked surface for Files: its only tracked
// method is Read.
type TrackedFiles struct {
	handle memo.Handle[*Files]
}

// Track wraps f for use as a memoized function's tracked argument.
func Track(f *Files) TrackedFiles {
	return TrackedFiles{handle: memo.NewHandle(f)}
}

// Read returns the contents stored at path, emitting a readCall to any
// attached sink.
func (t *TrackedFiles) Read(path string) string {
	v := t.handle.Value.read(path)
	t.handle.Emit(readCall{Path: path}, digest.OfString(v))
	return v
}

// Key implements memo.ArgSlot: tracked arguments never contribute to a
// memoized call's key.
func (t *TrackedFiles) Key() digest.D128 { return digest.Zero }

// TryCall implements memo.ArgSlot, dispatching the oracle's call by
// concrete Call variant.
func (t *TrackedFiles) TryCall(call memo.Call) (digest.D128, bool) {
	c, ok := call.(readCall)
	if !ok {
		return digest.D128{}, false
	}
	return t.handle.Resolve(call, func() digest.D128 {
		return digest.OfString(t.handle.Value.read(c.Path))
	}), true
}

// TryCallMut implements memo.ArgSlot. Files exposes no mutable tracked
// method, so this never matches.
func (t *TrackedFiles) TryCallMut(memo.Call) bool { return false }

// Attach implements memo.ArgSlot.
func (t *TrackedFiles) Attach(sink memo.Sink) { t.handle.Attach(sink) }

// readCall is the Call variant for Files.Read.
type readCall struct {
	Path string
}

func (c readCall) Digest() digest.D128 {
	return digest.Combine(digest.OfString("trackeddemo.Files.Read"), digest.OfString(c.Path))
}
func (readCall) IsMutable() bool { return false }
