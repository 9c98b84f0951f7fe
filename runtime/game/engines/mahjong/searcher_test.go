package mahjong

import (
	"slices"
	"testing"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/cache"
	"github.com/Hachijin-Okamoto/anyjara/common/config"
)

func TestSearcher_CachedWaitsMatchDirect(t *testing.T) {
	c, err := cache.NewGeneralCache(1024, time.Minute)
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	defer c.Close()

	rule := DefaultRule()
	s := NewSearcher(c)
	h := hand(t, rule, "", "red:3", "blue:3", "green:2")

	first := s.Waits(h, rule)
	c.Wait()
	if _, ok := c.GetStrings(waitsKey(h, rule)); !ok {
		t.Fatalf("waits should be cached after the first lookup")
	}
	// 不同 ID 同牌名的手牌命中同一个缓存
	other := hand(t, rule, "x", "green:2", "red:3", "blue:3")
	second := s.Waits(other, rule)
	if !slices.Equal(first, second) || !slices.Equal(first, TenpaiWaits(h, rule)) {
		t.Fatalf("cached waits differ: %v vs %v", first, second)
	}

	// 调用方修改返回值不影响缓存
	second[0] = "purple"
	if got := s.Waits(h, rule); got[0] != "green" {
		t.Fatalf("cache was mutated through the returned slice: %v", got)
	}

	s.Clear()
	c.Wait()
	if _, ok := c.GetStrings(waitsKey(h, rule)); ok {
		t.Fatalf("clear should drop cached waits")
	}
}

func TestSearcher_SameNameRulesDoNotShareWaits(t *testing.T) {
	c, err := cache.NewGeneralCache(1024, time.Minute)
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	defer c.Close()

	s := NewSearcher(c)
	base := DefaultRule()
	h := hand(t, base, "", "red:3", "blue:3", "green:2")
	if got := s.Waits(h, base); !slices.Equal(got, []string{"green"}) {
		t.Fatalf("default rule waits expected [green], got %v", got)
	}
	c.Wait()

	// 同名，但唯一的役要 9 张红
	strict := NormalizeRule(config.RuleDefinition{
		Name: base.Name,
		Yakus: []config.YakuDefinition{{
			ID:       "nine-red",
			Point:    5,
			Required: []config.RequirementDefinition{{Name: "red", Count: 9}},
		}},
	})
	if strict.Fingerprint() == base.Fingerprint() {
		t.Fatalf("rules with different yakus share fingerprint %s", base.Fingerprint())
	}
	if got := s.Waits(h, strict); len(got) != 0 {
		t.Fatalf("strict rule should have no waits, got %v", got)
	}
	if s.IsTenpai(h, strict) {
		t.Fatalf("hand is not tenpai under the strict rule")
	}

	// 内容相同的规则共用缓存
	if DefaultRule().Fingerprint() != base.Fingerprint() {
		t.Fatalf("identical rules should share a fingerprint")
	}
}

func TestSearcher_NilSafe(t *testing.T) {
	rule := DefaultRule()
	var s *Searcher
	h := hand(t, rule, "", "red:3", "blue:3", "green:2", "yellow:1")
	if !slices.Equal(s.ReachDiscards(h, rule), ReachDiscards(h, rule)) {
		t.Fatalf("nil searcher should compute directly")
	}
	if s.Waits(h, rule) != nil {
		t.Fatalf("wrong size hand has no waits")
	}
	s.Clear()
}
