package chain

import "github.com/btcsync/chain/types"

// HeadersIntersection classifies how a peer-supplied run of headers
// relates to what the chain already knows, so the caller can decide
// whether to request the new blocks, ignore the inventory, or treat it
// as a fork announcement.
type HeadersIntersection struct {
	Kind HeadersIntersectionKind
	// Index is the offset into the inventory at which new blocks begin.
	// It is meaningful only for the *NewBlocks kinds.
	Index int
}

// HeadersIntersectionKind enumerates the six possible verdicts.
type HeadersIntersectionKind int

const (
	// NoKnownBlocks: neither the in-memory queues nor storage know any
	// block in the inventory, and the block preceding the first one is
	// also unknown.
	NoKnownBlocks HeadersIntersectionKind = iota
	// InMemoryNoNewBlocks: the inventory's last block is already held in
	// one of the in-memory queues (its first block, or that block's
	// parent, being known); nothing new to request.
	InMemoryNoNewBlocks
	// InMemoryMainNewBlocks: the inventory has new blocks that extend
	// the chain's current best in-memory block directly.
	InMemoryMainNewBlocks
	// InMemoryForkNewBlocks: the inventory has new blocks that fork off
	// an in-memory block that is not the current best.
	InMemoryForkNewBlocks
	// DbAllBlocksKnown: every block in the inventory is already stored.
	DbAllBlocksKnown
	// DbForkNewBlocks: the inventory forks off a stored block with new
	// blocks the chain has never seen.
	DbForkNewBlocks
)

// IntersectWithHeaders classifies hashes/headers (a peer's ordered
// inventory announcement, hashes[i] = headers[i].Hash()) against the
// chain's current knowledge. hashes and headers must be the same
// non-zero length; violating that is a caller bug, not a recoverable
// condition.
func (c *Chain) IntersectWithHeaders(hashes []types.Hash, headers []*types.Header) HeadersIntersection {
	n := len(hashes)
	if n == 0 || n != len(headers) {
		violate("IntersectWithHeaders", "hashes and headers must be equal-length and non-empty (got %d, %d)", n, len(headers))
	}

	isFirstKnown := true
	firstState := c.BlockState(hashes[0])
	if firstState == Unknown {
		isFirstKnown = false
		firstState = c.BlockState(headers[0].PreviousHeaderHash)
	}

	if firstState == Unknown {
		return HeadersIntersection{Kind: NoKnownBlocks, Index: 0}
	}

	lastState := c.BlockState(hashes[n-1])
	switch {
	case lastState == Stored:
		return HeadersIntersection{Kind: DbAllBlocksKnown}

	case lastState == Unknown && !isFirstKnown:
		switch {
		case firstState == Stored:
			return HeadersIntersection{Kind: DbForkNewBlocks, Index: 0}
		case c.BestBlock().Hash == headers[0].PreviousHeaderHash:
			return HeadersIntersection{Kind: InMemoryMainNewBlocks, Index: 0}
		default:
			return HeadersIntersection{Kind: InMemoryForkNewBlocks, Index: 0}
		}

	case lastState == Unknown && isFirstKnown:
		previousState := firstState
		for index := 1; index < n; index++ {
			state := c.BlockState(hashes[index])
			if state != Unknown {
				previousState = state
				continue
			}
			switch {
			case previousState == Stored:
				return HeadersIntersection{Kind: DbForkNewBlocks, Index: index}
			case c.BestBlock().Hash == hashes[index-1]:
				return HeadersIntersection{Kind: InMemoryMainNewBlocks, Index: index}
			default:
				return HeadersIntersection{Kind: InMemoryForkNewBlocks, Index: index}
			}
		}
		// Unreachable: lastState == Unknown guarantees the loop above
		// finds its transition before exhausting the inventory.
		violate("IntersectWithHeaders", "last block unknown but no transition found")
		return HeadersIntersection{}

	default:
		// Last block held in an in-memory queue: an intersection with
		// no new blocks.
		return HeadersIntersection{Kind: InMemoryNoNewBlocks}
	}
}
