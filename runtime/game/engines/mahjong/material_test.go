package mahjong

import (
	"math/rand"
	"slices"
	"testing"
)

func TestBuildWall_MatchesCopies(t *testing.T) {
	rule := DefaultRule()
	wall := BuildWall(rule)
	if len(wall) != rule.TotalTiles() || len(wall) != 48 {
		t.Fatalf("wall size expected %d, got %d", rule.TotalTiles(), len(wall))
	}

	seen := make(map[string]bool, len(wall))
	for _, tile := range wall {
		if seen[tile.ID] {
			t.Fatalf("duplicate tile id %s", tile.ID)
		}
		seen[tile.ID] = true
	}

	custom := DefaultRule()
	custom.Tiles = []TileKind{{ID: "a", ColorID: "x", Copies: 5}, {ID: "b", ColorID: "y", Copies: 0}}
	if got := len(BuildWall(custom)); got != 5 {
		t.Fatalf("custom wall expected 5, got %d", got)
	}
}

func TestShuffle_DoesNotTouchInput(t *testing.T) {
	wall := BuildWall(DefaultRule())
	before := slices.Clone(wall)
	shuffled := Shuffle(wall, rand.New(rand.NewSource(1)))
	if !slices.Equal(wall, before) {
		t.Fatalf("shuffle modified its input")
	}
	if len(shuffled) != len(wall) {
		t.Fatalf("shuffle changed wall size")
	}
	again := Shuffle(wall, rand.New(rand.NewSource(1)))
	if !slices.Equal(shuffled, again) {
		t.Fatalf("same seed should give same order")
	}
}

func TestDeal_RoundRobin(t *testing.T) {
	wall := BuildWall(DefaultRule())
	hands, rest := Deal(wall, 8)
	if len(rest) != 16 {
		t.Fatalf("wall after deal expected 16, got %d", len(rest))
	}
	for seat, h := range hands {
		if len(h) != 8 {
			t.Fatalf("seat %d expected 8 tiles, got %d", seat, len(h))
		}
		if h[0].ID != wall[seat].ID || h[1].ID != wall[SeatCount+seat].ID {
			t.Fatalf("seat %d not dealt round robin", seat)
		}
	}

	short, rest := Deal(wall[:6], 8)
	if len(rest) != 0 || len(short[0]) != 2 || len(short[2]) != 1 {
		t.Fatalf("short deal: %d %d rest %d", len(short[0]), len(short[2]), len(rest))
	}
}

func TestDrawFront(t *testing.T) {
	wall := BuildWall(DefaultRule())[:3]
	tile, rest, ok := DrawFront(wall)
	if !ok || tile.ID != wall[0].ID || len(rest) != 2 {
		t.Fatalf("unexpected draw %v %d %v", tile, len(rest), ok)
	}
	if _, _, ok := DrawFront(nil); ok {
		t.Fatalf("draw from empty wall should fail")
	}
}

func TestSortHand_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	wall := Shuffle(BuildWall(DefaultRule()), rng)
	for start := 0; start+9 <= len(wall); start += 9 {
		h := wall[start : start+9]
		once := SortHand(h)
		twice := SortHand(once)
		if !slices.Equal(once, twice) {
			t.Fatalf("sortHand not idempotent: %v vs %v", TileIDs(once), TileIDs(twice))
		}
		for i := 1; i < len(once); i++ {
			if sortKey(once[i-1]) > sortKey(once[i]) {
				t.Fatalf("hand not sorted at %d: %v", i, TileIDs(once))
			}
		}
	}
}

func TestRemoveAndWithTile_ReturnNewSlices(t *testing.T) {
	rule := DefaultRule()
	h := hand(t, rule, "", "red:2", "blue:1")
	before := slices.Clone(h)

	rest, removed, ok := RemoveTile(h, h[1].ID)
	if !ok || removed.ID != before[1].ID || len(rest) != 2 {
		t.Fatalf("remove failed: %v %v", removed, ok)
	}
	if _, _, ok := RemoveTile(h, "nope"); ok {
		t.Fatalf("removing a missing tile should fail")
	}
	added := WithTile(rest, removed)
	if len(added) != 3 || !slices.Equal(h, before) {
		t.Fatalf("input hand was modified")
	}
	if IndexOf(h, "nope") != -1 {
		t.Fatalf("IndexOf missing tile should be -1")
	}
}

func TestHandSignature_IgnoresIDsAndOrder(t *testing.T) {
	rule := DefaultRule()
	a := hand(t, rule, "a", "red:2", "blue:1")
	b := hand(t, rule, "b", "blue:1", "red:2")
	if handSignature(a) != handSignature(b) {
		t.Fatalf("signature should only depend on names: %q vs %q", handSignature(a), handSignature(b))
	}
}
