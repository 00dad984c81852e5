// Package inflight provides per-key mutual exclusion for operations that
// must not run concurrently for the same entity, such as confirming a match
// or creating a pair. It only protects a single process instance; a
// multi-instance deployment needs a store-level conditional write instead.
package inflight

import "sync"

// Registry tracks keys with an operation in flight.
type Registry struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func New() *Registry {
	return &Registry{keys: make(map[string]struct{})}
}

// Acquire marks key as in flight. It returns false if another operation
// already holds the key.
func (r *Registry) Acquire(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, held := r.keys[key]; held {
		return false
	}
	r.keys[key] = struct{}{}
	return true
}

// Release frees key for the next operation. Releasing an unheld key is a no-op.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, key)
}
