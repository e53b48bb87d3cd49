package headerschain

import (
	"testing"

	"github.com/btcsync/chain/types"
)

func mkHeader(prev types.Hash, nonce uint32) *types.Header {
	return &types.Header{PreviousHeaderHash: prev, Nonce: nonce}
}

func TestEmptyChain(t *testing.T) {
	tip := types.HexToHash("0x01")
	c := New(tip)

	info := c.Information()
	if info.Best != 0 || info.Total != 0 {
		t.Fatalf("Information() = %+v, want zero value", info)
	}
	if c.StorageTip() != tip {
		t.Fatal("StorageTip should return the constructor argument")
	}
	if _, ok := c.At(0); ok {
		t.Fatal("At(0) on empty chain should report false")
	}
}

func TestInsertExtendsBestFromTip(t *testing.T) {
	tip := types.HexToHash("0x01")
	c := New(tip)

	h1 := mkHeader(tip, 1)
	c.Insert(tip, h1)

	info := c.Information()
	if info.Best != 1 || info.Total != 1 {
		t.Fatalf("Information() = %+v, want {1 1}", info)
	}
	hash1 := h1.Hash()
	if height, ok := c.Height(hash1); !ok || height != 0 {
		t.Fatalf("Height(h1) = %d,%v want 0,true", height, ok)
	}

	h2 := mkHeader(hash1, 2)
	c.Insert(hash1, h2)
	hash2 := h2.Hash()
	if height, ok := c.Height(hash2); !ok || height != 1 {
		t.Fatalf("Height(h2) = %d,%v want 1,true", height, ok)
	}

	got, ok := c.At(1)
	if !ok || got.Nonce != 2 {
		t.Fatalf("At(1) = %+v,%v want nonce 2", got, ok)
	}
}

func TestInsertIsIdempotent(t *testing.T) {
	tip := types.HexToHash("0x01")
	c := New(tip)
	hdr := mkHeader(tip, 1)

	c.Insert(tip, hdr)
	c.Insert(tip, hdr)

	if info := c.Information(); info.Total != 1 || info.Best != 1 {
		t.Fatalf("duplicate insert changed counts: %+v", info)
	}
}

func TestForkedHeaderDoesNotJoinBest(t *testing.T) {
	tip := types.HexToHash("0x01")
	c := New(tip)

	main := mkHeader(tip, 1)
	c.Insert(tip, main)
	fork := mkHeader(tip, 2)
	c.Insert(tip, fork)

	info := c.Information()
	if info.Total != 2 {
		t.Fatalf("Total = %d, want 2", info.Total)
	}
	if info.Best != 1 {
		t.Fatalf("Best = %d, want 1 (only the first child extends best)", info.Best)
	}

	forkHash := fork.Hash()
	if _, ok := c.Height(forkHash); ok {
		t.Fatal("forked header should not have a best-path height")
	}
	if !c.Contains(forkHash) {
		t.Fatal("forked header should still be held")
	}

	kids := c.Children(tip)
	if len(kids) != 2 {
		t.Fatalf("Children(tip) = %v, want 2 entries", kids)
	}
}

func TestRemoveTruncatesBestFromIndex(t *testing.T) {
	tip := types.HexToHash("0x01")
	c := New(tip)

	h1 := mkHeader(tip, 1)
	c.Insert(tip, h1)
	hash1 := h1.Hash()
	h2 := mkHeader(hash1, 2)
	c.Insert(hash1, h2)
	hash2 := h2.Hash()
	h3 := mkHeader(hash2, 3)
	c.Insert(hash2, h3)

	c.Remove(hash2)

	info := c.Information()
	if info.Best != 1 {
		t.Fatalf("Best = %d, want 1 after removing from height 1", info.Best)
	}
	if _, ok := c.Height(hash2); ok {
		t.Fatal("hash2 should no longer have a height")
	}
	if _, ok := c.Height(h3.Hash()); ok {
		t.Fatal("hash3 should no longer have a height (it was above the removed hash)")
	}
	if _, ok := c.Height(hash1); !ok {
		t.Fatal("hash1 should still have a height")
	}
}

func TestBlockInsertedToStorageAdvancesTip(t *testing.T) {
	tip := types.HexToHash("0x01")
	c := New(tip)

	h1 := mkHeader(tip, 1)
	c.Insert(tip, h1)
	hash1 := h1.Hash()
	h2 := mkHeader(hash1, 2)
	c.Insert(hash1, h2)
	hash2 := h2.Hash()

	c.BlockInsertedToStorage(hash1, hash1)

	if c.StorageTip() != hash1 {
		t.Fatal("storage tip should advance to hash1")
	}
	info := c.Information()
	if info.Best != 1 {
		t.Fatalf("Best = %d, want 1 after popping the inserted header", info.Best)
	}
	if height, ok := c.Height(hash2); !ok || height != 0 {
		t.Fatalf("Height(hash2) = %d,%v want 0,true", height, ok)
	}
	if c.Contains(hash1) {
		t.Fatal("hash1 should have been dropped from the in-memory graph")
	}
}

func TestBlockInsertedToStorageResetsOnDisagreement(t *testing.T) {
	tip := types.HexToHash("0x01")
	c := New(tip)

	h1 := mkHeader(tip, 1)
	c.Insert(tip, h1)

	// A block was inserted for a hash the headers graph never saw.
	other := types.HexToHash("0xff")
	c.BlockInsertedToStorage(other, other)

	if c.StorageTip() != other {
		t.Fatal("storage tip should follow the caller even on reset")
	}
	if info := c.Information(); info.Best != 0 || info.Total != 0 {
		t.Fatalf("Information() = %+v, want zero value after reset", info)
	}
}

func TestMayContainGatesLookup(t *testing.T) {
	tip := types.HexToHash("0x01")
	c := New(tip)
	if c.Contains(types.HexToHash("0xdead")) {
		t.Fatal("Contains on an empty chain should be false")
	}
}
