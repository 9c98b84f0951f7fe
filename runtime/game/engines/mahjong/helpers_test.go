package mahjong

import (
	"fmt"
	"math/rand"
	"testing"
)

// hand 按 "red:3,blue:2" 的写法造牌，同种牌的 ID 依次编号
func hand(t *testing.T, rule *Rule, prefix string, kinds ...string) []Tile {
	t.Helper()
	var out []Tile
	n := 0
	for _, s := range kinds {
		kindID, count := splitKind(t, s)
		kind, ok := rule.Kind(kindID)
		if !ok {
			t.Fatalf("unknown tile kind %q", kindID)
		}
		for i := 0; i < count; i++ {
			n++
			out = append(out, NewTile(kind, fmt.Sprintf("%s%d", prefix, n)))
		}
	}
	return out
}

func splitKind(t *testing.T, s string) (string, int) {
	t.Helper()
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			var n int
			if _, err := fmt.Sscanf(s[i+1:], "%d", &n); err != nil {
				t.Fatalf("bad count in %q", s)
			}
			return s[:i], n
		}
	}
	return s, 1
}

func newTestManager(seed int64) *TurnManager {
	return NewTurnManager(rand.New(rand.NewSource(seed)), NewSearcher(nil))
}

// discardState 构造轮到 seat 出牌的状态
func discardState(rule *Rule, seat int, hands [SeatCount][]Tile, wall []Tile) *GameState {
	s := NewGameState(rule)
	s.SetNumber = 1
	s.HandNumber = 1
	s.Dealer = 0
	s.SetDealer = 0
	s.Hands = hands
	s.Wall = wall
	s.Turn = seat
	s.Phase = PhaseDiscard
	return s
}

// drawState 构造轮到 seat 摸牌的状态
func drawState(rule *Rule, seat int, hands [SeatCount][]Tile, wall []Tile) *GameState {
	s := discardState(rule, seat, hands, wall)
	s.Phase = PhaseDraw
	return s
}

func sum(xs [SeatCount]int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
