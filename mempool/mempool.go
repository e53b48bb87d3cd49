// Package mempool holds the chain's transaction memory pool. It is
// exclusively owned by the synchronization chain and opaque to it: the
// chain neither inspects nor mutates transaction contents on the pool's
// behalf, it only gives callers a handle to it.
package mempool

import "sync"

// Pool is a minimal, thread-safe transaction memory pool keyed by raw
// transaction hash. Validation, fee estimation and eviction policy are
// a different concern's job; this type exists so the chain has
// somewhere to park unconfirmed transactions it is handed.
type Pool struct {
	mu   sync.RWMutex
	txns map[[32]byte][]byte
}

// New creates an empty memory pool.
func New() *Pool {
	return &Pool{txns: make(map[[32]byte][]byte)}
}

// Insert adds a raw transaction to the pool, keyed by hash. Re-inserting
// an existing hash overwrites it.
func (p *Pool) Insert(hash [32]byte, raw []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txns[hash] = raw
}

// Remove drops a transaction from the pool, if present.
func (p *Pool) Remove(hash [32]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.txns, hash)
}

// Get returns a transaction's raw bytes, if held.
func (p *Pool) Get(hash [32]byte) ([]byte, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	raw, ok := p.txns[hash]
	return raw, ok
}

// Len returns the number of transactions currently pooled.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.txns)
}
