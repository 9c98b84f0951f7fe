package mahjong

import (
	"testing"

	"github.com/Hachijin-Okamoto/anyjara/common/config"
)

func intPtr(v int) *int { return &v }

func TestDefaultRule(t *testing.T) {
	r := DefaultRule()
	if r.Name != DefaultRuleName || r.HandSize != 8 || r.WinHandSize != 9 {
		t.Fatalf("unexpected default rule: %+v", r)
	}
	if r.InitialScore != 5 || r.SetCycles != 2 {
		t.Fatalf("unexpected default scores: %+v", r)
	}
	if len(r.Tiles) != 4 || r.TotalTiles() != 48 {
		t.Fatalf("default wall expected 4 kinds / 48 tiles, got %d / %d", len(r.Tiles), r.TotalTiles())
	}
	if len(r.Yakus) != 1 || r.Yakus[0].Point != 3 || len(r.Yakus[0].Requirements) != 3 {
		t.Fatalf("unexpected default yakus: %+v", r.Yakus)
	}
}

func TestNormalizeRule_FillsDefaults(t *testing.T) {
	r := NormalizeRule(config.RuleDefinition{
		Name:     "tiny",
		HandSize: intPtr(5),
		Tiles: []config.TileDefinition{
			{ID: "a", Copies: 7},
			{ID: "", Copies: 3},
			{ID: "b", ColorID: "a", Copies: -2},
		},
		Yakus: []config.YakuDefinition{{
			ID:       "pair",
			Point:    1,
			Required: []config.RequirementDefinition{{Name: "a", Count: 0}},
		}},
	})
	if r.WinHandSize != 6 {
		t.Fatalf("win hand size should follow hand size, got %d", r.WinHandSize)
	}
	if len(r.Tiles) != 2 {
		t.Fatalf("tiles without id are skipped, got %d", len(r.Tiles))
	}
	if r.Tiles[0].Label != "a" || r.Tiles[0].ColorID != "a" {
		t.Fatalf("label and color default to the id: %+v", r.Tiles[0])
	}
	if r.Tiles[1].Copies != 0 || r.Tiles[1].ColorID != "a" {
		t.Fatalf("negative copies clamp to 0: %+v", r.Tiles[1])
	}
	if r.Yakus[0].Name != "pair" || r.Yakus[0].Requirements[0].Count != 1 {
		t.Fatalf("yaku name and count defaults not applied: %+v", r.Yakus[0])
	}
	if r.InitialScore != DefaultInitialScore || r.SetCycles != DefaultSetCycles {
		t.Fatalf("missing numbers should use defaults: %+v", r)
	}
}

func TestNormalizeRule_InvalidNumbers(t *testing.T) {
	r := NormalizeRule(config.RuleDefinition{
		HandSize:     intPtr(0),
		WinHandSize:  intPtr(-1),
		InitialScore: intPtr(0),
		SetCycles:    intPtr(0),
	})
	if r.HandSize != DefaultHandSize || r.WinHandSize != DefaultHandSize+1 {
		t.Fatalf("invalid hand sizes should fall back: %d/%d", r.HandSize, r.WinHandSize)
	}
	if r.SetCycles != DefaultSetCycles {
		t.Fatalf("set cycles should fall back, got %d", r.SetCycles)
	}
	// 起始分 0 是合法值
	if r.InitialScore != 0 {
		t.Fatalf("explicit zero initial score should be kept, got %d", r.InitialScore)
	}
}

func TestFindRule(t *testing.T) {
	rules := NormalizeRules([]config.RuleDefinition{{Name: "one"}, {Name: "two"}})
	if got := FindRule(rules, "two"); got.Name != "two" {
		t.Fatalf("expected two, got %s", got.Name)
	}
	if got := FindRule(rules, "missing"); got.Name != "one" {
		t.Fatalf("missing name should fall back to the first rule, got %s", got.Name)
	}
	if got := FindRule(nil, "x"); got.Name != DefaultRuleName {
		t.Fatalf("empty list should give the default rule, got %s", got.Name)
	}
	if got := NormalizeRules(nil); len(got) != 1 || got[0].Name != DefaultRuleName {
		t.Fatalf("no definitions should give only the default rule")
	}
}
