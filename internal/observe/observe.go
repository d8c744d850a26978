// Package observe tracks, per goroutine, whether the most recently
// completed Memoize call was a cache hit. It is the Go analogue of the
// runtime's thread_local! flag, keyed on goroutine id via
// github.com/petermattis/goid instead of OS-thread-local storage.
//
// © 2025 memotrack authors. MIT License.
package observe

import (
	"sync"

	"github.com/petermattis/goid"
)

var (
	mu      sync.Mutex
	lastHit = map[int64]bool{}
)

// RegisterHit marks the calling goroutine's most recent Memoize call as a
// cache hit.
func RegisterHit() {
	set(true)
}

// RegisterMiss marks the calling goroutine's most recent Memoize call as
// a cache miss.
func RegisterMiss() {
	set(false)
}

func set(hit bool) {
	id := goid.Get()
	mu.Lock()
	lastHit[id] = hit
	mu.Unlock()
}

// LastWasHit reports whether the calling goroutine's most recently
// completed Memoize call was a cache hit. It returns false for a
// goroutine that has never completed a memoized call, matching the
// runtime's Cell<bool> default.
func LastWasHit() bool {
	id := goid.Get()
	mu.Lock()
	hit := lastHit[id]
	mu.Unlock()
	return hit
}

// Forget drops the calling goroutine's recorded flag. Long-lived worker
// pools that memoize on behalf of many logical tasks can call this
// between tasks to avoid leaking one map entry per goroutine id forever;
// it is never required for correctness.
func Forget() {
	id := goid.Get()
	mu.Lock()
	delete(lastHit, id)
	mu.Unlock()
}
