package hashqueue

import (
	"testing"

	"github.com/btcsync/chain/types"
)

func h(b byte) types.Hash {
	var out types.Hash
	out[0] = b
	return out
}

func TestNewPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-positive numQueues")
		}
	}()
	New(0)
}

func TestPushBackAndLen(t *testing.T) {
	c := New(3)
	c.PushBackAt(0, h(1))
	c.PushBackAt(0, h(2))
	c.PushBackAt(1, h(3))

	if got := c.LenOf(0); got != 2 {
		t.Fatalf("LenOf(0) = %d, want 2", got)
	}
	if got := c.LenOf(1); got != 1 {
		t.Fatalf("LenOf(1) = %d, want 1", got)
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
}

func TestAtConcatenatesInRoleOrder(t *testing.T) {
	c := New(2)
	c.PushBackAt(0, h(1))
	c.PushBackAt(0, h(2))
	c.PushBackAt(1, h(3))

	cases := []struct {
		idx  int
		want types.Hash
	}{
		{0, h(1)},
		{1, h(2)},
		{2, h(3)},
	}
	for _, tc := range cases {
		got, ok := c.At(tc.idx)
		if !ok || got != tc.want {
			t.Fatalf("At(%d) = %v,%v want %v,true", tc.idx, got, ok, tc.want)
		}
	}
	if _, ok := c.At(3); ok {
		t.Fatal("At(3) should be out of range")
	}
}

func TestBackScansFromHighestRole(t *testing.T) {
	c := New(3)
	if _, ok := c.Back(); ok {
		t.Fatal("Back() on empty chain should report false")
	}
	c.PushBackAt(0, h(1))
	if got, ok := c.Back(); !ok || got != h(1) {
		t.Fatalf("Back() = %v,%v want h(1),true", got, ok)
	}
	c.PushBackAt(2, h(9))
	if got, ok := c.Back(); !ok || got != h(9) {
		t.Fatalf("Back() = %v,%v want h(9),true", got, ok)
	}
}

func TestFrontPreBackAt(t *testing.T) {
	c := New(1)
	c.PushBackAt(0, h(1))
	c.PushBackAt(0, h(2))
	c.PushBackAt(0, h(3))

	if got, ok := c.FrontAt(0); !ok || got != h(1) {
		t.Fatalf("FrontAt(0) = %v,%v want h(1),true", got, ok)
	}
	if got, ok := c.PreBackAt(0); !ok || got != h(2) {
		t.Fatalf("PreBackAt(0) = %v,%v want h(2),true", got, ok)
	}
}

func TestContainsInIsExact(t *testing.T) {
	c := New(2)
	c.PushBackAt(1, h(5))
	if role, ok := c.ContainsIn(h(5)); !ok || role != 1 {
		t.Fatalf("ContainsIn(h(5)) = %d,%v want 1,true", role, ok)
	}
	if _, ok := c.ContainsIn(h(6)); ok {
		t.Fatal("ContainsIn(h(6)) should be false")
	}
}

func TestPopFrontNAt(t *testing.T) {
	c := New(1)
	c.PushBackNAt(0, []types.Hash{h(1), h(2), h(3)})

	got := c.PopFrontNAt(0, 2)
	if len(got) != 2 || got[0] != h(1) || got[1] != h(2) {
		t.Fatalf("PopFrontNAt(0,2) = %v, want [h(1) h(2)]", got)
	}
	if _, ok := c.ContainsIn(h(1)); ok {
		t.Fatal("h(1) should have been removed from the index")
	}
	if c.LenOf(0) != 1 {
		t.Fatalf("LenOf(0) = %d, want 1", c.LenOf(0))
	}

	// Popping more than available only removes what's there.
	got = c.PopFrontNAt(0, 5)
	if len(got) != 1 || got[0] != h(3) {
		t.Fatalf("PopFrontNAt(0,5) = %v, want [h(3)]", got)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", c.Len())
	}
}

func TestRemoveAtPositions(t *testing.T) {
	c := New(1)
	c.PushBackNAt(0, []types.Hash{h(1), h(2), h(3), h(5), h(4)})

	if res := c.RemoveAt(0, h(1)); res.Position != Front {
		t.Fatalf("removing front = %v, want Front", res)
	}
	if res := c.RemoveAt(0, h(4)); res.Position != Back {
		t.Fatalf("removing back = %v, want Back", res)
	}
	if res := c.RemoveAt(0, h(3)); res.Position != Inside {
		t.Fatalf("removing inside = %v, want Inside", res)
	}
	if res := c.RemoveAt(0, h(9)); res.Position != Missing {
		t.Fatalf("removing absent = %v, want Missing", res)
	}
}

func TestRemoveAtWrongRoleIsMissing(t *testing.T) {
	c := New(2)
	c.PushBackAt(0, h(1))
	if res := c.RemoveAt(1, h(1)); res.Position != Missing {
		t.Fatalf("RemoveAt(1, h(1)) = %v, want Missing", res)
	}
	// The hash must still be present in its real queue.
	if role, ok := c.ContainsIn(h(1)); !ok || role != 0 {
		t.Fatal("h(1) should remain in queue 0 after a wrong-role RemoveAt")
	}
}

func TestRemoveAllAt(t *testing.T) {
	c := New(1)
	c.PushBackNAt(0, []types.Hash{h(1), h(2)})

	out := c.RemoveAllAt(0)
	if len(out) != 2 || out[0] != h(1) || out[1] != h(2) {
		t.Fatalf("RemoveAllAt(0) = %v, want [h(1) h(2)]", out)
	}
	if c.Len() != 0 {
		t.Fatal("chain should be empty after RemoveAllAt")
	}
	if _, ok := c.ContainsIn(h(1)); ok {
		t.Fatal("h(1) should be gone from the index")
	}
}

func TestCheckRolePanics(t *testing.T) {
	c := New(2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range role")
		}
	}()
	c.PushBackAt(5, h(1))
}
