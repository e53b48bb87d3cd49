// Package hashqueue implements the fixed-arity hash-queue primitive the
// synchronization chain builds on: a small array of ordered FIFOs over
// block hashes sharing a single O(1) hash-to-queue membership index. It
// has no notion of "scheduled", "requested" or "verifying" -- queue roles
// are just small integers assigned by the caller.
package hashqueue

import (
	"fmt"

	"github.com/btcsync/chain/types"
)

// HashPosition reports where a removal landed within its queue.
type HashPosition int

const (
	// Missing means the hash was not present in the queue.
	Missing HashPosition = iota
	// Front means the hash was the first element.
	Front
	// Inside means the hash was neither the first nor the last element;
	// Index carries its 0-based position within the queue.
	Inside
	// Back means the hash was the last element.
	Back
)

// Result pairs a HashPosition with the index it occurred at, for the
// Inside case. Index is meaningless for Missing, Front and Back.
type Result struct {
	Position HashPosition
	Index    int
}

func (r Result) String() string {
	switch r.Position {
	case Missing:
		return "missing"
	case Front:
		return "front"
	case Back:
		return "back"
	case Inside:
		return fmt.Sprintf("inside(%d)", r.Index)
	default:
		return "unknown"
	}
}

// queue is a single FIFO of hashes backed by a slice. Front removal
// reslices rather than copies; the backing array is dropped once the
// queue drains so it doesn't grow unbounded across long sync sessions.
type queue struct {
	items []types.Hash
}

func (q *queue) len() int { return len(q.items) }

func (q *queue) pushBack(h types.Hash) { q.items = append(q.items, h) }

func (q *queue) pushBackN(hs []types.Hash) { q.items = append(q.items, hs...) }

func (q *queue) popFrontN(n int) []types.Hash {
	if n > len(q.items) {
		n = len(q.items)
	}
	if n <= 0 {
		return nil
	}
	out := append([]types.Hash(nil), q.items[:n]...)
	q.items = q.items[n:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return out
}

func (q *queue) removeAll() []types.Hash {
	out := q.items
	q.items = nil
	return out
}

// removeAt deletes the element at index i, reporting where it was.
func (q *queue) removeAt(i int) Result {
	n := len(q.items)
	switch {
	case i == 0:
		q.items = q.items[1:]
		if len(q.items) == 0 {
			q.items = nil
		}
		return Result{Position: Front}
	case i == n-1:
		q.items = q.items[:i]
		return Result{Position: Back}
	default:
		q.items = append(q.items[:i], q.items[i+1:]...)
		return Result{Position: Inside, Index: i}
	}
}

// Chain is a fixed number of ordered FIFOs over hashes sharing one
// membership index. Queue roles are dense integers in [0, numQueues);
// concatenation order for Len/At/Back runs queue 0 first through queue
// numQueues-1 last -- the caller decides what low vs. high precedence
// means for its own roles.
type Chain struct {
	queues   []queue
	index    map[types.Hash]int // hash -> owning queue role
}

// New creates a Chain with the given number of queues, all empty.
func New(numQueues int) *Chain {
	if numQueues <= 0 {
		panic("hashqueue: numQueues must be positive")
	}
	return &Chain{
		queues: make([]queue, numQueues),
		index:  make(map[types.Hash]int),
	}
}

func (c *Chain) checkRole(role int) {
	if role < 0 || role >= len(c.queues) {
		panic(fmt.Sprintf("hashqueue: role %d out of range [0,%d)", role, len(c.queues)))
	}
}

// LenOf returns the number of hashes currently in the named queue.
func (c *Chain) LenOf(role int) int {
	c.checkRole(role)
	return c.queues[role].len()
}

// Len returns the total number of hashes across all queues.
func (c *Chain) Len() int {
	total := 0
	for i := range c.queues {
		total += c.queues[i].len()
	}
	return total
}

// At returns the hash at concatenated index i (queue 0 first through the
// last queue last), and whether i was in range.
func (c *Chain) At(i int) (types.Hash, bool) {
	if i < 0 {
		return types.Hash{}, false
	}
	for role := range c.queues {
		n := c.queues[role].len()
		if i < n {
			return c.queues[role].items[i], true
		}
		i -= n
	}
	return types.Hash{}, false
}

// Back returns the last hash in concatenation order (the back of the
// highest-indexed non-empty queue), and whether any queue is non-empty.
func (c *Chain) Back() (types.Hash, bool) {
	for role := len(c.queues) - 1; role >= 0; role-- {
		if n := c.queues[role].len(); n > 0 {
			return c.queues[role].items[n-1], true
		}
	}
	return types.Hash{}, false
}

// BackAt returns the last hash of the named queue.
func (c *Chain) BackAt(role int) (types.Hash, bool) {
	c.checkRole(role)
	q := &c.queues[role]
	if q.len() == 0 {
		return types.Hash{}, false
	}
	return q.items[q.len()-1], true
}

// FrontAt returns the first hash of the named queue.
func (c *Chain) FrontAt(role int) (types.Hash, bool) {
	c.checkRole(role)
	q := &c.queues[role]
	if q.len() == 0 {
		return types.Hash{}, false
	}
	return q.items[0], true
}

// PreBackAt returns the second-to-last hash of the named queue, if any.
func (c *Chain) PreBackAt(role int) (types.Hash, bool) {
	c.checkRole(role)
	q := &c.queues[role]
	if q.len() < 2 {
		return types.Hash{}, false
	}
	return q.items[q.len()-2], true
}

// ContainsIn reports which queue holds h, if any. The membership check
// is O(1) regardless of how many hashes are enqueued -- callers must
// never fall back to scanning the queues themselves.
func (c *Chain) ContainsIn(h types.Hash) (role int, ok bool) {
	role, ok = c.index[h]
	return
}

// PushBackAt appends a single hash to the named queue.
func (c *Chain) PushBackAt(role int, h types.Hash) {
	c.checkRole(role)
	c.queues[role].pushBack(h)
	c.index[h] = role
}

// PushBackNAt appends a list of hashes to the named queue, in order.
func (c *Chain) PushBackNAt(role int, hs []types.Hash) {
	c.checkRole(role)
	c.queues[role].pushBackN(hs)
	for _, h := range hs {
		c.index[h] = role
	}
}

// PopFrontNAt removes up to n hashes from the front of the named queue
// and returns them in the order they were removed. If the queue holds
// fewer than n hashes, only those present are removed.
func (c *Chain) PopFrontNAt(role int, n int) []types.Hash {
	c.checkRole(role)
	out := c.queues[role].popFrontN(n)
	for _, h := range out {
		delete(c.index, h)
	}
	return out
}

// RemoveAt removes h from the named queue if present, reporting where it
// was found. It is a no-op and returns Missing if h is not in that queue
// (even if it is present in a different one).
func (c *Chain) RemoveAt(role int, h types.Hash) Result {
	c.checkRole(role)
	owner, ok := c.index[h]
	if !ok || owner != role {
		return Result{Position: Missing}
	}
	q := &c.queues[role]
	for i, cand := range q.items {
		if cand == h {
			res := q.removeAt(i)
			delete(c.index, h)
			return res
		}
	}
	return Result{Position: Missing}
}

// RemoveAllAt drains the named queue and returns everything it held, in
// front-to-back order.
func (c *Chain) RemoveAllAt(role int) []types.Hash {
	c.checkRole(role)
	out := c.queues[role].removeAll()
	for _, h := range out {
		delete(c.index, h)
	}
	return out
}
