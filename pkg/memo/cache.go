package memo

import (
	"sync"
	"sync/atomic"

	"github.com/voskan/memotrack/internal/calltree"
	"github.com/voskan/memotrack/internal/digest"
	"github.com/voskan/memotrack/internal/observe"
)

// cacheEntry is one memoized result: the output, the mutable calls
// recorded while producing it (replayed verbatim on a hit), and an age
// counter incremented by every eviction sweep and reset to zero on a
// hit. Age is atomic because concurrent hits on the same leaf only take
// the cache's read lock.
type cacheEntry[Out any] struct {
	output  Out
	mutable []Call
	age     atomic.Uint64
}

// Cache owns one memoized function's whole state: a single call tree
// that multiplexes every key digest the function has ever been called
// with via its own top-level root map (spec §4.5/§4.6). The zero value
// is not usable; construct with NewCache.
type Cache[Out any] struct {
	mu   sync.RWMutex
	tree *calltree.Tree[*cacheEntry[Out]]
	name string
	opts *runtimeOptions
}

// NewCache creates an empty cache for a memoized function identified by
// name — used only for telemetry labels and log lines, never for
// lookup — and registers its eviction callback with the global
// registry.
func NewCache[Out any](name string, opts ...Option) *Cache[Out] {
	c := &Cache[Out]{
		name: name,
		tree: calltree.New[*cacheEntry[Out]](),
		opts: newRuntimeOptions(opts...),
	}
	registerEvictor(c.evict)
	registerStats(name, func() calltree.Stats {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.tree.Stats()
	})
	return c
}

func (c *Cache[Out]) evict(maxAge uint64) {
	c.mu.Lock()
	before := c.tree.Stats()
	c.tree.Retain(func(slot **cacheEntry[Out]) bool {
		entry := *slot
		return entry.age.Add(1) <= maxAge
	})
	after := c.tree.Stats()
	c.mu.Unlock()

	removed := before.LeafNodes - after.LeafNodes
	if removed > 0 {
		c.opts.metrics.IncEviction(c.name, removed)
	}
	c.opts.metrics.SetCalltreeNodes(c.name, after.InnerNodes, after.LeafNodes)
	c.opts.logger.EvictionSwept(c.name, removed, maxAge)
}

// Memoize executes f with input, reusing a previously cached output
// when the call-tree rooted at input's key digest already holds a
// branch whose every recorded tracked call still returns the same
// result against input's current tracked state. See spec §4.7.
//
// In is a type parameter (not a plain Input argument) so that f — and
// the caller's own code after Memoize returns — keeps working with the
// concrete composite argument type instead of the bare Input interface.
func Memoize[In Input, Out any](cache *Cache[Out], input In, enabled bool, f func(In) Out) Out {
	if !enabled {
		output := f(input)
		observe.RegisterMiss()
		return output
	}

	key := input.Key()

	cache.mu.RLock()
	entry, hit := cache.tree.Get(key, func(call Call) digest.D128 {
		return input.Call(call)
	})
	cache.mu.RUnlock()

	if hit {
		for _, mcall := range entry.mutable {
			input.CallMut(mcall)
		}
		entry.age.Store(0)
		observe.RegisterHit()
		cache.opts.metrics.IncHit(cache.name)
		return entry.output
	}

	constraint := NewConstraint()
	input.Attach(constraint)

	output := f(input)

	seq, mutable := constraint.Take()
	newEntry := &cacheEntry[Out]{output: output, mutable: mutable}

	cache.mu.Lock()
	err := cache.tree.Insert(key, seq, newEntry)
	cache.mu.Unlock()

	switch err {
	case nil:
		if cache.opts.spill != nil {
			if encoded, encErr := cache.opts.encode(output); encErr != nil {
				cache.opts.logger.SpillFailed(cache.name, encErr)
			} else if spillErr := cache.opts.spill.Record(cache.name, key, encoded); spillErr != nil {
				cache.opts.logger.SpillFailed(cache.name, spillErr)
			}
		}
	case calltree.ErrAlreadyExists:
		// A concurrent call with the same key and observable behavior
		// raced ahead of us. Its result is equivalent; ours is discarded.
	case calltree.ErrMissingCall:
		cache.opts.metrics.IncMissingCall(cache.name)
		cache.opts.logger.NonDeterminism(cache.name, err)
		if digest.StrictMode {
			panic("memotrack: memoized function is non-deterministic")
		}
	}

	observe.RegisterMiss()
	cache.opts.metrics.IncMiss(cache.name)
	return output
}
