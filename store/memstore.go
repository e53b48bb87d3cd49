package store

import (
	"fmt"
	"sync"

	"github.com/btcsync/chain/types"
)

// MemStore is a reference Store backed entirely by in-memory maps. It is
// the default backend for tests and for short-lived tooling; the
// pebble- and goleveldb-backed stores share its indexing scheme but
// persist to disk.
type MemStore struct {
	mu sync.RWMutex

	byNumber map[uint32]types.Hash
	byHash   map[types.Hash]*types.Block
	heightOf map[types.Hash]uint32
	best     types.BestBlock
}

// NewMemStore creates an empty in-memory store rooted at genesis.
// genesis is inserted as block 0 without a parent check.
func NewMemStore(genesis *types.Block) *MemStore {
	s := &MemStore{
		byNumber: make(map[uint32]types.Hash),
		byHash:   make(map[types.Hash]*types.Block),
		heightOf: make(map[types.Hash]uint32),
	}
	hash := genesis.Hash()
	s.byNumber[0] = hash
	s.byHash[hash] = genesis
	s.heightOf[hash] = 0
	s.best = types.BestBlock{Number: 0, Hash: hash}
	return s
}

func (s *MemStore) BlockHash(number uint32) (types.Hash, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byNumber[number]
	return h, ok
}

func (s *MemStore) BlockNumber(hash types.Hash) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.heightOf[hash]
	return n, ok
}

func (s *MemStore) Block(ref types.BlockRef) (*types.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(ref)
}

func (s *MemStore) resolve(ref types.BlockRef) (*types.Block, bool) {
	if ref.ByHash {
		b, ok := s.byHash[ref.Hash]
		return b, ok
	}
	if ref.ByNumber {
		h, ok := s.byNumber[ref.Number]
		if !ok {
			return nil, false
		}
		b, ok := s.byHash[h]
		return b, ok
	}
	return nil, false
}

func (s *MemStore) ContainsBlock(ref types.BlockRef) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.resolve(ref)
	return ok
}

func (s *MemStore) BestBlock() types.BestBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.best
}

func (s *MemStore) InsertBlock(block *types.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if block.Header.PreviousHeaderHash != s.best.Hash {
		panic(fmt.Sprintf("store: insert_block precondition violated: parent %s != tip %s",
			block.Header.PreviousHeaderHash, s.best.Hash))
	}
	hash := block.Hash()
	number := s.best.Number + 1
	s.byNumber[number] = hash
	s.byHash[hash] = block
	s.heightOf[hash] = number
	s.best = types.BestBlock{Number: number, Hash: hash}
	return nil
}
