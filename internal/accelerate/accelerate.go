// Package accelerate implements the process-wide accelerator: a
// lock-protected map from (tracked-instance id, call digest) to result
// digest, consulted during both recording and validation so that a
// memoized function calling the same tracked method many times pays for
// the real invocation only once per instance. An entry is stable for
// the lifetime of its instance id, because memoized functions must be
// pure: callers mint a fresh instance id (NextID, via Track/NewHandle)
// at every top-level entry point, so no two unrelated calls ever share
// one id's accelerator slot.
//
// © 2025 memotrack authors. MIT License.
package accelerate

import (
	"sync"
	"sync/atomic"

	"github.com/voskan/memotrack/internal/digest"
)

var (
	idCounter atomic.Uint64

	mu    sync.RWMutex
	table = map[uint64]map[digest.D128]digest.D128{}

	onResize func(instances int)
)

// NextID mints a fresh, process-wide unique instance id. Instance ids are
// never reused: after a global Evict, the counter keeps climbing, it is
// not rewound, so a stale id from before eviction can never alias a new
// instance's slot.
func NextID() uint64 {
	return idCounter.Add(1)
}

// SetResizeHook installs a callback invoked whenever a brand-new
// instance id's backing map is created, so that a metrics or logging
// layer can count accelerator growth without this package importing it.
// No package in this module installs a hook.
func SetResizeHook(f func(instances int)) {
	mu.Lock()
	onResize = f
	mu.Unlock()
}

// Lookup consults the accelerator for (id, callDigest). The second
// return value is false on a cold entry.
func Lookup(id uint64, callDigest digest.D128) (digest.D128, bool) {
	mu.RLock()
	sub, ok := table[id]
	if !ok {
		mu.RUnlock()
		return digest.D128{}, false
	}
	result, ok := sub[callDigest]
	mu.RUnlock()
	return result, ok
}

// Store records the result digest of a call for a given instance,
// creating the instance's sub-map on first use.
func Store(id uint64, callDigest, result digest.D128) {
	mu.Lock()
	sub, ok := table[id]
	if !ok {
		sub = make(map[digest.D128]digest.D128, 8)
		table[id] = sub
		if onResize != nil {
			onResize(len(table))
		}
	}
	sub[callDigest] = result
	mu.Unlock()
}

// Once calls fn to compute the result digest for (id, callDigest) only
// if it is not already accelerated, storing and returning the stored
// value either way. This is the single entry point memoized calls and
// validations should use: it folds the Lookup/Store race into one
// critical section-free sequence (fn runs outside the lock: tracked
// method invocation must never happen while holding a runtime lock).
func Once(id uint64, callDigest digest.D128, fn func() digest.D128) digest.D128 {
	if result, ok := Lookup(id, callDigest); ok {
		return result
	}
	result := fn()
	Store(id, callDigest, result)
	return result
}

// Evict clears every accelerator entry while keeping the outer map's
// allocated bucket count, matching the runtime's "shrinks only on
// eviction, slot vector preserved" posture: Go's runtime does not let us
// cheaply "preserve but clear" a map's buckets, so we approximate by
// dropping the sub-maps but keeping the outer map's capacity hint via a
// fresh map sized to the previous instance count.
func Evict() {
	mu.Lock()
	table = make(map[uint64]map[digest.D128]digest.D128, len(table))
	mu.Unlock()
}

// Len reports the number of instances with at least one accelerated
// call, for diagnostics (internal/telemetry, cmd/memotrack-inspect).
func Len() int {
	mu.RLock()
	n := len(table)
	mu.RUnlock()
	return n
}
