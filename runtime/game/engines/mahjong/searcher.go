package mahjong

import (
	"github.com/Hachijin-Okamoto/anyjara/common/cache"
)

// Searcher 听牌搜索，按 (规则内容摘要, 牌名多重集合) 缓存听牌结果
// nil Searcher 或不带缓存时直接计算
type Searcher struct {
	cache *cache.GeneralCache
}

func NewSearcher(c *cache.GeneralCache) *Searcher {
	return &Searcher{cache: c}
}

func waitsKey(hand []Tile, rule *Rule) string {
	return rule.Fingerprint() + "|" + handSignature(hand)
}

// Waits 同 TenpaiWaits
func (s *Searcher) Waits(hand []Tile, rule *Rule) []string {
	if len(hand) != rule.WinHandSize-1 {
		return nil
	}
	if s == nil || s.cache == nil {
		return TenpaiWaits(hand, rule)
	}
	key := waitsKey(hand, rule)
	if waits, ok := s.cache.GetStrings(key); ok {
		return waits
	}
	waits := TenpaiWaits(hand, rule)
	// 空结果也缓存，未听牌的手牌占大多数
	s.cache.Set(key, append([]string{}, waits...))
	return waits
}

func (s *Searcher) IsTenpai(hand []Tile, rule *Rule) bool {
	return len(s.Waits(hand, rule)) > 0
}

// ReachDiscards 同包级 ReachDiscards，逐张试打时走缓存
func (s *Searcher) ReachDiscards(hand []Tile, rule *Rule) []string {
	return reachDiscards(hand, rule, s.IsTenpai)
}

// Clear 规则热更新后清空缓存
func (s *Searcher) Clear() {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.Clear()
}
