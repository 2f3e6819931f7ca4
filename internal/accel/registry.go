package accel

import (
	"fmt"
	"sort"
	"sync"
)

// Vendor runtimes link themselves in behind build tags and register
// here from init, the same way database/sql drivers do.
var (
	registryMu sync.RWMutex
	registry   = map[string]func() Runtime{}
)

// Register makes a runtime constructor available under a vendor name.
// Registering the same vendor twice panics.
func Register(vendor string, factory func() Runtime) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[vendor]; dup {
		panic("accel: Register called twice for vendor " + vendor)
	}
	registry[vendor] = factory
}

// Open constructs the runtime registered under vendor. The runtime is
// not probed here; Handle.Available does that lazily.
func Open(vendor string) (Runtime, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[vendor]
	if !ok {
		names := make([]string, 0, len(registry))
		for name := range registry {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("vendor %q not built in (have %v): %w", vendor, names, ErrNotAvailable)
	}
	return factory(), nil
}
