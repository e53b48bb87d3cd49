// Package chain implements the synchronization chain: the in-memory
// view of "blocks we are tracking but have not yet fully verified",
// layered on top of a durable Store and an in-memory headers graph.
//
// A Chain is the union of four ranges, oldest to newest:
//  1. everything already committed to storage
//  2. blocks currently undergoing verification
//  3. blocks requested from peers, awaiting a response
//  4. blocks scheduled for requesting but not yet asked for
//
// Chain performs no internal locking; callers that share a Chain across
// goroutines must guard it externally (see Ref).
package chain

import (
	"github.com/btcsync/chain/hashqueue"
	"github.com/btcsync/chain/headerschain"
	"github.com/btcsync/chain/mempool"
	"github.com/btcsync/chain/store"
	"github.com/btcsync/chain/types"
)

// Information reports the current size of every stage of the pipeline.
type Information struct {
	Scheduled uint32
	Requested uint32
	Verifying uint32
	Stored    uint32
	Headers   headerschain.Information
}

// Chain is the synchronization chain. It holds a reference to the
// backing store, an in-memory hash queue for the three pre-storage
// stages, an in-memory headers graph for inventory classification, and
// an opaque memory pool it owns but never inspects.
type Chain struct {
	genesisHash     types.Hash
	bestStorageBlock types.BestBlock

	storage      store.Store
	hashChain    *hashqueue.Chain
	headersChain *headerschain.Chain
	memoryPool   *mempool.Pool
}

// New creates a Chain over storage, which must already contain a
// genesis block at height 0. This mirrors the single documented
// precondition of the original design: an empty store cannot back a
// Chain.
func New(storage store.Store) *Chain {
	genesisHash, ok := storage.BlockHash(0)
	if !ok {
		violate("New", "storage must contain a genesis block at height 0")
	}
	best := storage.BestBlock()

	return &Chain{
		genesisHash:      genesisHash,
		bestStorageBlock: best,
		storage:          storage,
		hashChain:        hashqueue.New(numberOfQueues),
		headersChain:     headerschain.New(best.Hash),
		memoryPool:       mempool.New(),
	}
}

// Information returns a snapshot of the chain's pipeline occupancy.
func (c *Chain) Information() Information {
	return Information{
		Scheduled: uint32(c.hashChain.LenOf(ScheduledQueue)),
		Requested: uint32(c.hashChain.LenOf(RequestedQueue)),
		Verifying: uint32(c.hashChain.LenOf(VerifyingQueue)),
		Stored:    c.bestStorageBlock.Number + 1,
		Headers:   c.headersChain.Information(),
	}
}

// Storage returns the backing store.
func (c *Chain) Storage() store.Store { return c.storage }

// MemoryPool returns the chain's owned memory pool.
func (c *Chain) MemoryPool() *mempool.Pool { return c.memoryPool }

// LengthOfState returns the number of blocks currently in the given
// state. Stored reports height+1 (genesis counts as one stored block);
// every other state reports the corresponding queue's length.
func (c *Chain) LengthOfState(state BlockState) uint32 {
	if state == Stored {
		return c.bestStorageBlock.Number + 1
	}
	return uint32(c.hashChain.LenOf(state.toQueueIndex()))
}

// BestBlock returns the newest block the chain is tracking: the back of
// the in-memory hash queue if non-empty, otherwise the storage tip.
func (c *Chain) BestBlock() types.BestBlock {
	hash, ok := c.hashChain.Back()
	if !ok {
		return c.bestStorageBlock
	}
	return types.BestBlock{
		Number: c.bestStorageBlock.Number + uint32(c.hashChain.Len()),
		Hash:   hash,
	}
}

// BestStorageBlock returns the current storage tip.
func (c *Chain) BestStorageBlock() types.BestBlock { return c.bestStorageBlock }

// BlockHash resolves a height to a hash, consulting storage for heights
// at or below the tip and the in-memory queue above it.
func (c *Chain) BlockHash(number uint32) (types.Hash, bool) {
	if number <= c.bestStorageBlock.Number {
		return c.storage.BlockHash(number)
	}
	return c.hashChain.At(int(number - c.bestStorageBlock.Number - 1))
}

// BlockNumber resolves a hash to a height, consulting storage first and
// falling back to the headers graph for in-memory blocks.
func (c *Chain) BlockNumber(hash types.Hash) (uint32, bool) {
	if number, ok := c.storage.BlockNumber(hash); ok {
		return number, true
	}
	offset, ok := c.headersChain.Height(hash)
	if !ok {
		return 0, false
	}
	return c.bestStorageBlock.Number + offset + 1, true
}

// BlockHeaderByNumber resolves a height to a header, consulting storage
// for heights at or below the tip and the headers graph above it.
func (c *Chain) BlockHeaderByNumber(number uint32) (*types.Header, bool) {
	if number <= c.bestStorageBlock.Number {
		block, ok := c.storage.Block(types.RefByNumber(number))
		if !ok {
			return nil, false
		}
		return &block.Header, true
	}
	return c.headersChain.At(number - c.bestStorageBlock.Number - 1)
}

// BlockHeaderByHash resolves a hash to a header, consulting storage
// before the headers graph.
func (c *Chain) BlockHeaderByHash(hash types.Hash) (*types.Header, bool) {
	if block, ok := c.storage.Block(types.RefByHash(hash)); ok {
		return &block.Header, true
	}
	return c.headersChain.ByHash(hash)
}

// BlockState reports which of the chain's four ranges currently holds
// hash, or Unknown if it holds none of them.
func (c *Chain) BlockState(hash types.Hash) BlockState {
	if queue, ok := c.hashChain.ContainsIn(hash); ok {
		return stateFromQueueIndex(queue)
	}
	if c.storage.ContainsBlock(types.RefByHash(hash)) {
		return Stored
	}
	return Unknown
}
