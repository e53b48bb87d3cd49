package chain

import (
	"testing"

	"github.com/btcsync/chain/store"
	"github.com/btcsync/chain/types"
)

func TestScenario3LocatorOnDeepChain(t *testing.T) {
	genesis := genesisBlock()
	s := store.NewMemStore(genesis)

	h1 := &types.Block{Header: *header(genesis.Hash(), 200)}
	if err := s.InsertBlock(h1); err != nil {
		t.Fatalf("InsertBlock(h1) error = %v", err)
	}
	h2 := &types.Block{Header: *header(h1.Hash(), 201)}
	if err := s.InsertBlock(h2); err != nil {
		t.Fatalf("InsertBlock(h2) error = %v", err)
	}

	c := New(s)
	b := chainOfHeaders(h2.Hash(), 20, 1) // b[0]..b[19]
	bHashes := hashesOf(b)

	c.ScheduleBlocksHeaders(bHashes[0:11], b[0:11]) // b0..b10
	c.RequestBlocksHashes(10)                       // b0..b9 -> requested
	c.VerifyBlocksHashes(10)                        // b0..b9 -> verifying

	want1 := []types.Hash{
		bHashes[10], bHashes[9], bHashes[8], bHashes[7], bHashes[6],
		bHashes[5], bHashes[4], bHashes[3], bHashes[2], bHashes[1],
		h2.Hash(), genesis.Hash(),
	}
	assertLocator(t, "after first schedule/request/verify", c.BlockLocatorHashes(), want1)

	c.ScheduleBlocksHeaders(bHashes[11:17], b[11:17]) // b11..b16
	c.RequestBlocksHashes(10)                         // b10..b16 -> requested

	want2 := []types.Hash{
		bHashes[16], bHashes[15], bHashes[14], bHashes[13], bHashes[12],
		bHashes[11], bHashes[10], bHashes[9], bHashes[8], bHashes[7],
		bHashes[5], bHashes[1], genesis.Hash(),
	}
	assertLocator(t, "after second schedule/request", c.BlockLocatorHashes(), want2)

	c.ScheduleBlocksHeaders(bHashes[17:20], b[17:20]) // b17..b19

	want3 := []types.Hash{
		bHashes[19], bHashes[18], bHashes[17], bHashes[16], bHashes[15],
		bHashes[14], bHashes[13], bHashes[12], bHashes[11], bHashes[10],
		bHashes[8], bHashes[4], genesis.Hash(),
	}
	assertLocator(t, "after third schedule", c.BlockLocatorHashes(), want3)
}

func assertLocator(t *testing.T, step string, got, want []types.Hash) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: locator length = %d, want %d (%v vs %v)", step, len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: locator[%d] = %v, want %v", step, i, got[i], want[i])
		}
	}
}
