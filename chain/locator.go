package chain

import "github.com/btcsync/chain/types"

// BlockLocatorHashes builds a Bitcoin "getblocks" locator: a sparse list
// of ancestor hashes of the chain's current best block, dense near the
// tip and exponentially sparser toward genesis. The first 10 entries
// are one block apart, walking the in-memory hash queue from its back
// and continuing into storage once the queue is exhausted; after that
// the step doubles on every emitted entry. Genesis is always the last entry unless best block is genesis
// itself.
//
// When the in-memory queue holds blocks from more than one fork, the
// locator can end up interleaving hashes from different forks. That is
// accepted here: a peer responding to such a locator may answer with
// blocks from either fork, and the caller is expected to fall back to a
// full inventory request once synchronization reaches a steady state.
func (c *Chain) BlockLocatorHashes() []types.Hash {
	var hashes []types.Hash

	localIndex, step := c.blockLocatorHashesForQueue(&hashes)

	var storageIndex uint32
	if c.bestStorageBlock.Number >= localIndex {
		storageIndex = c.bestStorageBlock.Number - localIndex
	}
	c.blockLocatorHashesForStorage(storageIndex, step, &hashes)
	return hashes
}

func (c *Chain) blockLocatorHashesForQueue(hashes *[]types.Hash) (uint32, uint32) {
	queueLen := c.hashChain.Len()
	if queueLen == 0 {
		return 0, 1
	}

	index := queueLen - 1
	step := uint32(1)
	for {
		hash, ok := c.hashChain.At(index)
		if !ok {
			violate("BlockLocatorHashes", "queue index %d out of range (len=%d)", index, queueLen)
		}
		*hashes = append(*hashes, hash)

		if len(*hashes) >= 10 {
			step <<= 1
		}
		if uint32(index) < step {
			return step - uint32(index) - 1, step
		}
		index -= int(step)
	}
}

func (c *Chain) blockLocatorHashesForStorage(index, step uint32, hashes *[]types.Hash) {
	for {
		hash, ok := c.storage.BlockHash(index)
		if !ok {
			violate("BlockLocatorHashes", "storage missing block at height %d", index)
		}
		*hashes = append(*hashes, hash)

		if len(*hashes) >= 10 {
			step <<= 1
		}
		if index < step {
			if index != 0 {
				*hashes = append(*hashes, c.genesisHash)
			}
			return
		}
		index -= step
	}
}
