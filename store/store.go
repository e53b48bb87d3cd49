// Package store defines the storage contract the synchronization chain
// relies on for everything that has been fully verified, plus the
// backends that satisfy it.
package store

import (
	"errors"

	"github.com/btcsync/chain/types"
)

// ErrNotFound is returned by lookups that address a block which is not
// present in the store. It is never returned by Store.Block / Contains
// directly -- those report absence via their boolean return instead, per
// the "absence is not an error" rule the chain facade depends on. It
// exists for backends whose underlying driver needs a sentinel error to
// translate.
var ErrNotFound = errors.New("store: not found")

// ErrStorageFailure wraps a backend-specific I/O error (disk full,
// corruption, a failed pebble/leveldb commit). The chain facade
// propagates it verbatim to its caller without interpreting it.
type ErrStorageFailure struct {
	Op  string
	Err error
}

func (e *ErrStorageFailure) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }
func (e *ErrStorageFailure) Unwrap() error  { return e.Err }

// Store is the durable collaborator the synchronization chain consults
// for everything it has already fully verified. It is the sole source
// of truth for canonical height <-> hash mappings and block contents;
// the chain never second-guesses a Store response for a block it did
// not itself just insert.
//
// Implementations must keep BlockHash, BlockNumber, Block and
// ContainsBlock mutually consistent with BestBlock at all times: once
// InsertBlock returns without error, every accessor must observe the
// new tip.
type Store interface {
	// BlockHash returns the hash stored at the given height, if any.
	BlockHash(number uint32) (types.Hash, bool)

	// BlockNumber returns the height of a known block hash, if any.
	BlockNumber(hash types.Hash) (uint32, bool)

	// Block resolves a block by either hash or height.
	Block(ref types.BlockRef) (*types.Block, bool)

	// ContainsBlock reports whether ref resolves to a stored block. The
	// pebble and goleveldb backends answer it by loading and decoding
	// the block, as Block does.
	ContainsBlock(ref types.BlockRef) bool

	// BestBlock returns the current canonical tip.
	BestBlock() types.BestBlock

	// InsertBlock appends block as the new best block. The caller
	// guarantees block's header declares the current tip as its parent;
	// implementations are free to panic on violation rather than return
	// an error, since that is a precondition breach, not a storage
	// failure. Any error returned here is a genuine backend failure and
	// is propagated to the chain's caller unchanged.
	InsertBlock(block *types.Block) error
}
