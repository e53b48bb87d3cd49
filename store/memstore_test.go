package store

import (
	"testing"

	"github.com/btcsync/chain/types"
)

func genesisBlock() *types.Block {
	return &types.Block{Header: types.Header{Nonce: 0}}
}

func TestMemStoreGenesis(t *testing.T) {
	genesis := genesisBlock()
	s := NewMemStore(genesis)

	best := s.BestBlock()
	if best.Number != 0 || best.Hash != genesis.Hash() {
		t.Fatalf("BestBlock() = %+v, want genesis", best)
	}
	if !s.ContainsBlock(types.RefByNumber(0)) {
		t.Fatal("genesis should be reachable by number")
	}
	if !s.ContainsBlock(types.RefByHash(genesis.Hash())) {
		t.Fatal("genesis should be reachable by hash")
	}
}

func TestMemStoreInsertAdvancesTip(t *testing.T) {
	genesis := genesisBlock()
	s := NewMemStore(genesis)

	next := &types.Block{Header: types.Header{PreviousHeaderHash: genesis.Hash(), Nonce: 1}}
	if err := s.InsertBlock(next); err != nil {
		t.Fatalf("InsertBlock() error = %v", err)
	}

	best := s.BestBlock()
	if best.Number != 1 || best.Hash != next.Hash() {
		t.Fatalf("BestBlock() = %+v, want height 1 at next's hash", best)
	}
	number, ok := s.BlockNumber(next.Hash())
	if !ok || number != 1 {
		t.Fatalf("BlockNumber(next) = %d,%v want 1,true", number, ok)
	}
	hash, ok := s.BlockHash(1)
	if !ok || hash != next.Hash() {
		t.Fatalf("BlockHash(1) = %v,%v want next.Hash(),true", hash, ok)
	}
}

func TestMemStoreInsertPanicsOnWrongParent(t *testing.T) {
	s := NewMemStore(genesisBlock())
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a block whose parent is not the current tip")
		}
	}()
	s.InsertBlock(&types.Block{Header: types.Header{PreviousHeaderHash: types.HexToHash("0xdead")}})
}

func TestMemStoreUnknownRefsReportAbsence(t *testing.T) {
	s := NewMemStore(genesisBlock())
	if _, ok := s.BlockHash(99); ok {
		t.Fatal("BlockHash(99) should report absence, not an error")
	}
	if _, ok := s.Block(types.RefByHash(types.HexToHash("0xdead"))); ok {
		t.Fatal("Block(unknown hash) should report absence")
	}
}
