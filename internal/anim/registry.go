package anim

import (
	"fmt"
	"sort"
	"sync"
)

var (
	runtimesMu sync.Mutex
	runtimes   = map[string]Runtime{}
)

// Register makes a runtime implementation available under the given name.
// Adapters call it from an init function, mirroring database/sql driver
// registration. Registering a nil runtime or a duplicate name panics.
func Register(name string, rt Runtime) {
	runtimesMu.Lock()
	defer runtimesMu.Unlock()
	if rt == nil {
		panic("anim: Register runtime is nil")
	}
	if _, dup := runtimes[name]; dup {
		panic("anim: Register called twice for runtime " + name)
	}
	runtimes[name] = rt
}

// Open returns the runtime registered under name.
func Open(name string) (Runtime, error) {
	runtimesMu.Lock()
	defer runtimesMu.Unlock()
	rt, ok := runtimes[name]
	if !ok {
		return nil, fmt.Errorf("animation runtime %q not registered (known: %v)", name, runtimeNames())
	}
	return rt, nil
}

// runtimeNames returns the registered names sorted, for error messages.
// Caller holds runtimesMu.
func runtimeNames() []string {
	names := make([]string, 0, len(runtimes))
	for name := range runtimes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
