package memo

import (
	"sync"

	"github.com/voskan/memotrack/internal/accelerate"
	"github.com/voskan/memotrack/internal/calltree"
)

// Snapshot is the JSON-serializable shape cmd/memotrack-inspect expects
// at a service's debug endpoint.
type Snapshot struct {
	AcceleratorInstances int                       `json:"accelerator_instances"`
	Caches               map[string]calltree.Stats `json:"caches"`
}

var (
	statProvidersMu sync.RWMutex
	statProviders   = map[string]func() calltree.Stats{}
)

// registerStats wires name's Stats accessor into the process-wide
// debug snapshot. NewCache calls this once per constructed Cache.
func registerStats(name string, stats func() calltree.Stats) {
	statProvidersMu.Lock()
	statProviders[name] = stats
	statProvidersMu.Unlock()
}

// DebugSnapshot reports the current call-tree shape of every Cache
// constructed in this process, plus the accelerator's instance count.
// Intended for a caller-owned /debug/memotrack/snapshot HTTP handler,
// the endpoint cmd/memotrack-inspect polls.
func DebugSnapshot() Snapshot {
	statProvidersMu.RLock()
	defer statProvidersMu.RUnlock()
	caches := make(map[string]calltree.Stats, len(statProviders))
	for name, fn := range statProviders {
		caches[name] = fn()
	}
	return Snapshot{
		AcceleratorInstances: accelerate.Len(),
		Caches:               caches,
	}
}
