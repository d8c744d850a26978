package memo

import (
	"sync"

	"github.com/voskan/memotrack/internal/accelerate"
)

var (
	evictorsMu sync.RWMutex
	evictors   []func(maxAge uint64)
)

// registerEvictor adds fn to the global list of per-function evictors,
// invoked in registration order by Evict. NewCache calls this once per
// constructed Cache.
func registerEvictor(fn func(maxAge uint64)) {
	evictorsMu.Lock()
	evictors = append(evictors, fn)
	evictorsMu.Unlock()
}

// Evict sweeps every registered Cache: every entry's age is incremented,
// and entries whose age now exceeds maxAge are removed. The accelerator
// is cleared afterward. Set maxAge to zero to completely clear every
// cache.
func Evict(maxAge uint64) {
	evictorsMu.RLock()
	fns := make([]func(uint64), len(evictors))
	copy(fns, evictors)
	evictorsMu.RUnlock()

	for _, fn := range fns {
		fn(maxAge)
	}
	accelerate.Evict()
}
