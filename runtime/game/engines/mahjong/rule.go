package mahjong

import (
	"encoding/json"
	"strconv"

	"github.com/Hachijin-Okamoto/anyjara/common/config"
	"github.com/cespare/xxhash/v2"
)

// ColorAny 通配颜色要求
const ColorAny = "any"

const (
	DefaultRuleName     = "Default"
	DefaultHandSize     = 8
	DefaultInitialScore = 5
	DefaultSetCycles    = 2 // 庄家轮转两圈后一盘结束
	defaultCopies       = 12
)

// TileKind 牌种
type TileKind struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	ColorID   string `json:"colorId"`
	ColorCode string `json:"colorCode"`
	Copies    int    `json:"copies"`
}

// Requirement 役的单项要求：指定牌名，或指定颜色（any 为任意单色）
type Requirement struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count"`
}

func (r Requirement) byName() bool { return r.Name != "" }

func (r Requirement) byColor() bool { return r.Name == "" && r.Color != "" && r.Color != ColorAny }

func (r Requirement) wildcard() bool { return r.Name == "" && r.Color == ColorAny }

type Yaku struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Point        int           `json:"point"`
	Requirements []Requirement `json:"required"`
}

// Rule 已规范化的规则，创建后只读，可以在多个牌桌间共享
type Rule struct {
	Name         string     `json:"name"`
	HandSize     int        `json:"handSize"`
	WinHandSize  int        `json:"winHandSize"`
	InitialScore int        `json:"initialScore"`
	SetCycles    int        `json:"setCycles"`
	Tiles        []TileKind `json:"tiles"`
	Yakus        []Yaku     `json:"yakus"`

	fingerprint string
}

// Fingerprint 牌种、役和和牌张数的内容摘要，同名规则内容不同时摘要也不同
// NormalizeRule 里预先算好，之后不要再改规则字段；手工构造的规则每次重新计算
func (r *Rule) Fingerprint() string {
	if r.fingerprint != "" {
		return r.fingerprint
	}
	return r.computeFingerprint()
}

func (r *Rule) computeFingerprint() string {
	body, err := json.Marshal(struct {
		WinHandSize int        `json:"w"`
		Tiles       []TileKind `json:"t"`
		Yakus       []Yaku     `json:"y"`
	}{r.WinHandSize, r.Tiles, r.Yakus})
	if err != nil {
		// 字段都是基本类型，不会走到这里
		return r.Name + "|" + strconv.Itoa(r.WinHandSize)
	}
	return strconv.FormatUint(xxhash.Sum64(body), 36)
}

// TotalTiles 整副牌的张数
func (r *Rule) TotalTiles() int {
	total := 0
	for _, k := range r.Tiles {
		total += k.Copies
	}
	return total
}

// Kind 按牌种 ID 查找
func (r *Rule) Kind(id string) (TileKind, bool) {
	for _, k := range r.Tiles {
		if k.ID == id {
			return k, true
		}
	}
	return TileKind{}, false
}

func defaultTiles() []TileKind {
	return []TileKind{
		{ID: "red", Label: "Red", ColorID: "red", ColorCode: "#e34b4b", Copies: defaultCopies},
		{ID: "blue", Label: "Blue", ColorID: "blue", ColorCode: "#3a6fe2", Copies: defaultCopies},
		{ID: "green", Label: "Green", ColorID: "green", ColorCode: "#3ca36b", Copies: defaultCopies},
		{ID: "yellow", Label: "Yellow", ColorID: "yellow", ColorCode: "#e2b93b", Copies: defaultCopies},
	}
}

func defaultYakus() []Yaku {
	return []Yaku{{
		ID:    "triple-sets-3",
		Name:  "Triple Sets x3",
		Point: 3,
		Requirements: []Requirement{
			{Color: ColorAny, Count: 3},
			{Color: ColorAny, Count: 3},
			{Color: ColorAny, Count: 3},
		},
	}}
}

// DefaultRule 内置规则：四色各 12 张，8 张起手
func DefaultRule() *Rule {
	return NormalizeRule(config.RuleDefinition{})
}

// NormalizeRule 补全缺省字段，得到引擎可以直接使用的规则
func NormalizeRule(def config.RuleDefinition) *Rule {
	r := &Rule{
		Name:         def.Name,
		HandSize:     intOr(def.HandSize, DefaultHandSize),
		InitialScore: intOr(def.InitialScore, DefaultInitialScore),
		SetCycles:    intOr(def.SetCycles, DefaultSetCycles),
	}
	if r.Name == "" {
		r.Name = DefaultRuleName
	}
	if r.HandSize < 1 {
		r.HandSize = DefaultHandSize
	}
	r.WinHandSize = intOr(def.WinHandSize, r.HandSize+1)
	if r.WinHandSize < 1 {
		r.WinHandSize = r.HandSize + 1
	}
	if r.SetCycles < 1 {
		r.SetCycles = DefaultSetCycles
	}

	for _, t := range def.Tiles {
		if t.ID == "" {
			continue
		}
		kind := TileKind{
			ID:        t.ID,
			Label:     t.Label,
			ColorID:   t.ColorID,
			ColorCode: t.ColorCode,
			Copies:    max(t.Copies, 0),
		}
		if kind.Label == "" {
			kind.Label = kind.ID
		}
		if kind.ColorID == "" {
			kind.ColorID = kind.ID
		}
		r.Tiles = append(r.Tiles, kind)
	}
	if len(r.Tiles) == 0 {
		r.Tiles = defaultTiles()
	}

	for _, y := range def.Yakus {
		yaku := Yaku{ID: y.ID, Name: y.Name, Point: y.Point}
		if yaku.Name == "" {
			yaku.Name = yaku.ID
		}
		for _, req := range y.Required {
			yaku.Requirements = append(yaku.Requirements, Requirement{
				Name:  req.Name,
				Color: req.Color,
				Count: max(req.Count, 1),
			})
		}
		r.Yakus = append(r.Yakus, yaku)
	}
	if len(r.Yakus) == 0 {
		r.Yakus = defaultYakus()
	}
	r.fingerprint = r.computeFingerprint()
	return r
}

// NormalizeRules 空列表时返回只含内置规则的列表
func NormalizeRules(defs []config.RuleDefinition) []*Rule {
	if len(defs) == 0 {
		return []*Rule{DefaultRule()}
	}
	rules := make([]*Rule, 0, len(defs))
	for _, def := range defs {
		rules = append(rules, NormalizeRule(def))
	}
	return rules
}

// FindRule 按名称查找，name 为空或找不到时返回第一套
func FindRule(rules []*Rule, name string) *Rule {
	if len(rules) == 0 {
		return DefaultRule()
	}
	for _, r := range rules {
		if r.Name == name {
			return r
		}
	}
	return rules[0]
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
