// Package headerschain implements the in-memory headers graph the
// synchronization chain consults to classify peer inventories before any
// of it has reached storage. It tracks every header announced by a peer
// since the current storage tip, keyed by hash, with enough topology
// (parent/children) to answer "is this the main chain or a fork" without
// touching disk.
package headerschain

import (
	"github.com/VictoriaMetrics/fastcache"
	"github.com/holiman/bloomfilter/v2"

	"github.com/btcsync/chain/types"
)

// defaultCacheBytes sizes the header lookup cache; headers are 80 bytes
// each, so this comfortably holds several hundred thousand of them.
const defaultCacheBytes = 32 * 1024 * 1024

// bloomExpectedItems and bloomFalsePositiveRate size the negative-probe
// filter. It only needs to outlive a single inventory burst from a single
// peer, so it is rebuilt wholesale on every Reset rather than tuned for
// long-term growth.
const (
	bloomExpectedItems      = 1 << 20
	bloomFalsePositiveRate  = 0.001
)

// Chain is the in-memory headers graph anchored at the storage tip. It
// has no notion of "best" beyond its own topology: Information reports
// the length of the single best-known path rooted at the tip, and a
// reorg inside the held headers resets the whole structure rather than
// attempting to patch it in place -- the headers pool is cheap to rebuild
// and persistent headers-on-disk recovery is explicitly out of scope.
type Chain struct {
	storageTip types.Hash

	headers  map[types.Hash]*types.Header
	parent   map[types.Hash]types.Hash
	children map[types.Hash][]types.Hash

	// best holds the single canonical path of hashes above storageTip,
	// in ascending height order. heightIndex maps a hash on that path to
	// its offset within best, for O(1) Height lookups.
	best        []types.Hash
	heightIndex map[types.Hash]int

	cache *fastcache.Cache
	seen  *bloomfilter.Filter
}

// New creates an empty headers chain anchored at tip.
func New(tip types.Hash) *Chain {
	filter, err := bloomfilter.NewOptimal(bloomExpectedItems, bloomFalsePositiveRate)
	if err != nil {
		// Only returns an error for a degenerate (zero) item count, which
		// never happens with the constant above.
		panic("headerschain: failed to build bloom filter: " + err.Error())
	}
	return &Chain{
		storageTip:  tip,
		headers:     make(map[types.Hash]*types.Header),
		parent:      make(map[types.Hash]types.Hash),
		children:    make(map[types.Hash][]types.Hash),
		heightIndex: make(map[types.Hash]int),
		cache:       fastcache.New(defaultCacheBytes),
		seen:        filter,
	}
}

// Information summarizes the chain for status reporting: Best is the
// length of the canonical path above the storage tip, Total is the
// number of headers held regardless of whether they are on that path
// (i.e. including known forks).
type Information struct {
	Best  uint32
	Total uint32
}

// Information reports the current size of the held headers graph.
func (c *Chain) Information() Information {
	return Information{
		Best:  uint32(len(c.best)),
		Total: uint32(len(c.headers)),
	}
}

// StorageTip returns the hash the chain is currently anchored at.
func (c *Chain) StorageTip() types.Hash { return c.storageTip }

// mayContain is the cheap negative-probe gate: a false result means the
// hash is definitely not held, letting callers skip the map/cache lookup
// entirely when fielding a large inventory from an untrusted peer.
func (c *Chain) mayContain(h types.Hash) bool {
	return c.seen.Contains(hash64Of(h))
}

// ByHash returns the header for h, if known, consulting the fastcache
// layer before falling back to the authoritative map.
func (c *Chain) ByHash(h types.Hash) (*types.Header, bool) {
	if !c.mayContain(h) {
		return nil, false
	}
	if raw := c.cache.Get(nil, h.Bytes()); raw != nil {
		hdr := decodeHeader(raw)
		return hdr, true
	}
	hdr, ok := c.headers[h]
	if !ok {
		return nil, false
	}
	c.cache.Set(h.Bytes(), encodeHeader(hdr))
	return hdr, true
}

// At returns the header at offset above the storage tip (offset 0 is the
// first header after the tip), if the canonical path is that long.
func (c *Chain) At(offset uint32) (*types.Header, bool) {
	if int(offset) >= len(c.best) {
		return nil, false
	}
	return c.ByHash(c.best[offset])
}

// Height reports the offset of h above the storage tip, if h is on the
// canonical best path. Headers known only as part of a fork report false.
func (c *Chain) Height(h types.Hash) (uint32, bool) {
	idx, ok := c.heightIndex[h]
	if !ok {
		return 0, false
	}
	return uint32(idx), true
}

// Children returns the immediate children of h known to the chain, in no
// particular order.
func (c *Chain) Children(h types.Hash) []types.Hash {
	kids := c.children[h]
	if len(kids) == 0 {
		return nil
	}
	out := make([]types.Hash, len(kids))
	copy(out, kids)
	return out
}

// Parent returns the parent hash of h, if h is known.
func (c *Chain) Parent(h types.Hash) (types.Hash, bool) {
	p, ok := c.parent[h]
	return p, ok
}

// Contains reports whether h is held, on the best path or not.
func (c *Chain) Contains(h types.Hash) bool {
	if !c.mayContain(h) {
		return false
	}
	_, ok := c.headers[h]
	return ok
}

// Insert adds a single header, keyed by its own hash, with parentHash as
// its declared parent. It is idempotent: inserting an already-known
// header is a no-op. The caller is responsible for supplying headers in
// parent-before-child order within a batch; Insert itself does not
// validate that parentHash is known.
func (c *Chain) Insert(parentHash types.Hash, header *types.Header) {
	h := header.Hash()
	if c.Contains(h) {
		return
	}
	c.headers[h] = header
	c.parent[h] = parentHash
	c.children[parentHash] = append(c.children[parentHash], h)
	c.seen.Add(hash64Of(h))
	c.cache.Set(h.Bytes(), encodeHeader(header))

	if parentHash == c.storageTip {
		if len(c.best) == 0 {
			c.extendBest(h)
		}
		return
	}
	if idx, ok := c.heightIndex[parentHash]; ok && idx == len(c.best)-1 {
		c.extendBest(h)
	}
}

// InsertN inserts a run of headers in order, threading each header's
// previous-hash field as the next header's declared parent.
func (c *Chain) InsertN(headers []*types.Header) {
	for _, hdr := range headers {
		c.Insert(hdr.PreviousHeaderHash, hdr)
	}
}

func (c *Chain) extendBest(h types.Hash) {
	c.heightIndex[h] = len(c.best)
	c.best = append(c.best, h)
}

// Remove drops h and everything above it on the best path, mirroring the
// effect a chain reorg or a forget-with-children cascade has on the
// headers graph. Headers belonging to forks that never joined the best
// path are left untouched by height bookkeeping but are still removed
// from the authoritative maps and the cache. The membership filter keeps
// every hash it has seen, since it has no removal operation.
func (c *Chain) Remove(h types.Hash) {
	if idx, ok := c.heightIndex[h]; ok {
		for _, dropped := range c.best[idx:] {
			delete(c.heightIndex, dropped)
		}
		c.best = c.best[:idx]
	}
	c.deleteHeader(h)
}

// RemoveN removes a list of hashes, regardless of order.
func (c *Chain) RemoveN(hashes []types.Hash) {
	for _, h := range hashes {
		c.Remove(h)
	}
}

func (c *Chain) deleteHeader(h types.Hash) {
	delete(c.headers, h)
	if p, ok := c.parent[h]; ok {
		delete(c.parent, h)
		siblings := c.children[p]
		for i, cand := range siblings {
			if cand == h {
				c.children[p] = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		if len(c.children[p]) == 0 {
			delete(c.children, p)
		}
	}
	delete(c.children, h)
	c.cache.Del(h.Bytes())
	// The bloom filter has no removal operation; a stale positive only
	// costs a wasted map lookup, never a false negative.
}

// BlockInsertedToStorage advances the storage tip to newTip once
// inserted has been written to the backing store. If inserted is the
// head of the best path, it is popped and every remaining offset shifts
// down by one. If the headers graph disagrees with storage about what
// comes next -- the new front of best no longer declares newTip as its
// parent -- the whole graph is discarded and rebuilt empty at newTip,
// since the cached topology can no longer be trusted to answer queries
// correctly.
func (c *Chain) BlockInsertedToStorage(inserted, newTip types.Hash) {
	if len(c.best) == 0 || c.best[0] != inserted {
		c.reset(newTip)
		return
	}
	c.deleteHeader(inserted)
	c.best = c.best[1:]
	for i, h := range c.best {
		c.heightIndex[h] = i
	}
	delete(c.heightIndex, inserted)
	c.storageTip = newTip

	if len(c.best) > 0 {
		if p, ok := c.parent[c.best[0]]; !ok || p != newTip {
			c.reset(newTip)
		}
	}
}

func (c *Chain) reset(tip types.Hash) {
	c.storageTip = tip
	c.headers = make(map[types.Hash]*types.Header)
	c.parent = make(map[types.Hash]types.Hash)
	c.children = make(map[types.Hash][]types.Hash)
	c.best = nil
	c.heightIndex = make(map[types.Hash]int)
	c.cache.Reset()
	filter, err := bloomfilter.NewOptimal(bloomExpectedItems, bloomFalsePositiveRate)
	if err != nil {
		panic("headerschain: failed to rebuild bloom filter: " + err.Error())
	}
	c.seen = filter
}
