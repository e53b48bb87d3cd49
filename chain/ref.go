package chain

import "sync"

// Ref is a thread-safe handle to a Chain. Chain itself performs no
// internal locking; Ref supplies the single reader-writer lock callers
// are expected to hold for the duration of any Chain access, mirroring
// a single-writer/many-readers sharing model rather than per-field
// synchronization.
type Ref struct {
	mu    sync.RWMutex
	chain *Chain
}

// NewRef wraps c in a Ref.
func NewRef(c *Chain) *Ref {
	return &Ref{chain: c}
}

// Read runs fn with a read lock held, for any combination of the pure
// query methods.
func (r *Ref) Read(fn func(c *Chain)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.chain)
}

// Write runs fn with a write lock held, for any mutating method.
func (r *Ref) Write(fn func(c *Chain)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.chain)
}
