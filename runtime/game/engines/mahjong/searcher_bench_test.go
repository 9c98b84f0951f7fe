package mahjong

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/cache"
)

func benchHands(rule *Rule, n int) [][]Tile {
	rng := rand.New(rand.NewSource(1))
	hands := make([][]Tile, 0, n)
	for len(hands) < n {
		wall := Shuffle(BuildWall(rule), rng)
		hands = append(hands, SortHand(wall[:rule.WinHandSize]))
	}
	return hands
}

func BenchmarkReachDiscards_NoCache(b *testing.B) {
	rule := DefaultRule()
	hands := benchHands(rule, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ReachDiscards(hands[i%len(hands)], rule)
	}
}

func BenchmarkReachDiscards_Cached(b *testing.B) {
	c, err := cache.NewGeneralCache(1<<14, time.Minute)
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()
	rule := DefaultRule()
	s := NewSearcher(c)
	hands := benchHands(rule, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.ReachDiscards(hands[i%len(hands)], rule)
	}
}

func BenchmarkEvaluateYaku(b *testing.B) {
	rule := DefaultRule()
	hands := benchHands(rule, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = EvaluateYaku(hands[i%len(hands)], rule)
	}
}

func BenchmarkAgariPriority(b *testing.B) {
	rule := DefaultRule()
	st, err := NewStrategy(StrategyAgariPriority, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		b.Fatal(err)
	}
	hands := benchHands(rule, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = st.DecideDiscard(hands[i%len(hands)], rule, nil)
	}
}
