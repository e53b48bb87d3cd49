package chain

import (
	"github.com/btcsync/chain/hashqueue"
	"github.com/btcsync/chain/types"
)

// ScheduleBlocksHeaders enqueues hashes for requesting and records their
// headers in the headers graph. Caller-supplied order is preserved;
// headers are expected in parent-before-child order within the batch.
func (c *Chain) ScheduleBlocksHeaders(hashes []types.Hash, headers []*types.Header) {
	c.hashChain.PushBackNAt(ScheduledQueue, hashes)
	c.headersChain.InsertN(headers)
}

// RequestBlocksHashes moves up to n hashes from scheduled to requested,
// returning the hashes moved in order.
func (c *Chain) RequestBlocksHashes(n int) []types.Hash {
	scheduled := c.hashChain.PopFrontNAt(ScheduledQueue, n)
	c.hashChain.PushBackNAt(RequestedQueue, scheduled)
	return scheduled
}

// VerifyBlock appends a received block's hash to the verifying queue,
// also recording its header in the headers graph in case this hash
// arrived out of headers-first order. It does not remove hash from the
// queue that currently holds it.
func (c *Chain) VerifyBlock(hash types.Hash, header *types.Header) {
	c.headersChain.Insert(header.PreviousHeaderHash, header)
	c.hashChain.PushBackAt(VerifyingQueue, hash)
}

// VerifyBlocksHashes moves up to n hashes from requested to verifying,
// returning the hashes moved. It exists for test setups that want to
// drive a block through the pipeline without supplying real headers.
func (c *Chain) VerifyBlocksHashes(n int) []types.Hash {
	requested := c.hashChain.PopFrontNAt(RequestedQueue, n)
	c.hashChain.PushBackNAt(VerifyingQueue, requested)
	return requested
}

// InsertBestBlock commits block to storage as the new best block, then
// reconciles the headers graph against the new tip. Any error returned
// is the storage backend's own failure, propagated unchanged; it is
// never constructed or interpreted by Chain itself.
func (c *Chain) InsertBestBlock(hash types.Hash, block *types.Block) error {
	if err := c.storage.InsertBlock(block); err != nil {
		return err
	}
	c.bestStorageBlock = c.storage.BestBlock()
	c.headersChain.BlockInsertedToStorage(hash, c.bestStorageBlock.Hash)
	return nil
}

// Forget drops hash from whichever in-memory queue holds it, and its
// header from the headers graph. It is a no-op (reporting Missing) if
// hash is not currently held in any queue.
func (c *Chain) Forget(hash types.Hash) hashqueue.Result {
	result := c.ForgetLeaveHeader(hash)
	if result.Position != hashqueue.Missing {
		c.headersChain.Remove(hash)
	}
	return result
}

// ForgetLeaveHeader drops hash from whichever in-memory queue holds it,
// but leaves its header in the headers graph as an orphan.
func (c *Chain) ForgetLeaveHeader(hash types.Hash) hashqueue.Result {
	if res := c.hashChain.RemoveAt(VerifyingQueue, hash); res.Position != hashqueue.Missing {
		return res
	}
	if res := c.hashChain.RemoveAt(RequestedQueue, hash); res.Position != hashqueue.Missing {
		return res
	}
	return c.hashChain.RemoveAt(ScheduledQueue, hash)
}

// ForgetWithState drops hash from the named state's queue only (not
// whichever queue actually holds it), and its header from the headers
// graph if the removal succeeded. It exists for test setups asserting
// exact queue membership.
func (c *Chain) ForgetWithState(hash types.Hash, state BlockState) hashqueue.Result {
	result := c.ForgetWithStateLeaveHeader(hash, state)
	if result.Position != hashqueue.Missing {
		c.headersChain.Remove(hash)
	}
	return result
}

// ForgetWithStateLeaveHeader is ForgetWithState without touching the
// headers graph.
func (c *Chain) ForgetWithStateLeaveHeader(hash types.Hash, state BlockState) hashqueue.Result {
	return c.hashChain.RemoveAt(state.toQueueIndex(), hash)
}

// ForgetWithChildren forgets hash and every descendant the headers
// graph currently knows about, removing children before parents are
// visited so each forget-step sees a headers graph that still contains
// the hash it is about to drop.
func (c *Chain) ForgetWithChildren(hash types.Hash) {
	removalQueue := []types.Hash{hash}
	var removalStack []types.Hash

	for len(removalQueue) > 0 {
		h := removalQueue[0]
		removalQueue = removalQueue[1:]
		removalQueue = append(removalQueue, c.headersChain.Children(h)...)
		removalStack = append(removalStack, h)
	}
	for i := len(removalStack) - 1; i >= 0; i-- {
		c.Forget(removalStack[i])
	}
}

// ForgetAllWithState drains the named state's queue entirely, forgetting
// every header it held.
func (c *Chain) ForgetAllWithState(state BlockState) {
	hashes := c.hashChain.RemoveAllAt(state.toQueueIndex())
	c.headersChain.RemoveN(hashes)
}
