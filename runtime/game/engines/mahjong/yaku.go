package mahjong

import (
	"maps"
	"slices"
	"sort"
)

// YakuResult 单个役的判定结果
type YakuResult struct {
	Yaku     Yaku `json:"yaku"`
	Achieved bool `json:"achieved"`
	Missing  int  `json:"missing"` // 距离成役还差的张数
}

// Evaluation 一手牌的役判定结果
type Evaluation struct {
	Results     []YakuResult `json:"results"`
	Achieved    []Yaku       `json:"achieved"`
	Best        *Yaku        `json:"best,omitempty"`
	TotalPoints int          `json:"totalPoints"`
	IsWon       bool         `json:"isWon"`
}

// tileCounts 按牌名、按颜色的张数
type tileCounts struct {
	names  map[string]int
	colors map[string]int
	// 牌名到颜色，用于按牌名扣减时同步扣减颜色
	nameColor map[string]string
}

func countTiles(hand []Tile) tileCounts {
	c := tileCounts{
		names:     make(map[string]int, len(hand)),
		colors:    make(map[string]int, SeatCount),
		nameColor: make(map[string]string, len(hand)),
	}
	for _, t := range hand {
		c.names[t.Name]++
		c.colors[t.ColorID]++
		c.nameColor[t.Name] = t.ColorID
	}
	return c
}

func (c tileCounts) clone() tileCounts {
	return tileCounts{
		names:     maps.Clone(c.names),
		colors:    maps.Clone(c.colors),
		nameColor: c.nameColor,
	}
}

// take 最多扣减 want 张，返回实际扣减数
func take(pool map[string]int, key string, want int) int {
	have := pool[key]
	n := min(have, want)
	pool[key] = have - n
	return n
}

// splitRequirements 牌名要求、指定颜色要求、通配要求（按张数降序）
func splitRequirements(reqs []Requirement) (byName, byColor []Requirement, wildcard []int) {
	for _, r := range reqs {
		switch {
		case r.byName():
			byName = append(byName, r)
		case r.byColor():
			byColor = append(byColor, r)
		case r.wildcard():
			wildcard = append(wildcard, r.Count)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(wildcard)))
	return byName, byColor, wildcard
}

// colorGroups 剩余张数大于 0 的颜色组，按颜色 ID 排序保证结果稳定
func colorGroups(colors map[string]int) []int {
	keys := make([]string, 0, len(colors))
	for k := range colors {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	groups := make([]int, 0, len(keys))
	for _, k := range keys {
		if colors[k] > 0 {
			groups = append(groups, colors[k])
		}
	}
	return groups
}

// bestFit 张数不少于 need 的最小组，没有返回 -1
func bestFit(groups []int, need int) int {
	idx := -1
	for i, g := range groups {
		if g >= need && (idx < 0 || g < groups[idx]) {
			idx = i
		}
	}
	return idx
}

func largest(groups []int) int {
	idx := -1
	for i, g := range groups {
		if idx < 0 || g > groups[idx] {
			idx = i
		}
	}
	return idx
}

// missingFor 计算某个役还差几张，0 即成役
// 牌名要求先从牌名池扣减并同步扣减对应颜色，再扣减指定颜色，
// 通配要求从大到小各独占一个颜色组，优先取刚好够用的最小组
func missingFor(y Yaku, counts tileCounts) int {
	c := counts.clone()
	byName, byColor, wildcard := splitRequirements(y.Requirements)
	missing := 0

	for _, r := range byName {
		got := take(c.names, r.Name, r.Count)
		missing += r.Count - got
		if color, ok := c.nameColor[r.Name]; ok {
			take(c.colors, color, got)
		}
	}
	for _, r := range byColor {
		missing += r.Count - take(c.colors, r.Color, r.Count)
	}

	groups := colorGroups(c.colors)
	for _, need := range wildcard {
		idx := bestFit(groups, need)
		if idx < 0 {
			idx = largest(groups)
		}
		if idx < 0 {
			missing += need
			continue
		}
		missing += need - min(groups[idx], need)
		groups = slices.Delete(groups, idx, idx+1)
	}
	return missing
}

// EvaluateYaku 按规则里的顺序判定每个役；最佳役取分数最高者，同分取先出现的
// 不检查手牌张数，张数由调用方保证
func EvaluateYaku(hand []Tile, rule *Rule) Evaluation {
	counts := countTiles(hand)
	ev := Evaluation{Results: make([]YakuResult, 0, len(rule.Yakus))}
	for _, y := range rule.Yakus {
		missing := missingFor(y, counts)
		ev.Results = append(ev.Results, YakuResult{Yaku: y, Achieved: missing == 0, Missing: missing})
		if missing > 0 {
			continue
		}
		ev.Achieved = append(ev.Achieved, y)
	}
	for i := range ev.Achieved {
		if ev.Best == nil || ev.Achieved[i].Point > ev.Best.Point {
			ev.Best = &ev.Achieved[i]
		}
	}
	// 和牌只算最佳役的分，不累加
	if ev.Best != nil {
		ev.TotalPoints = ev.Best.Point
	}
	ev.IsWon = len(ev.Achieved) > 0
	return ev
}

// CanWin 是否至少成立一个役
func CanWin(hand []Tile, rule *Rule) bool {
	counts := countTiles(hand)
	for _, y := range rule.Yakus {
		if missingFor(y, counts) == 0 {
			return true
		}
	}
	return false
}

// MinMissing 所有役中最少还差几张；没有役时返回 0
func MinMissing(hand []Tile, rule *Rule) int {
	counts := countTiles(hand)
	best := -1
	for _, y := range rule.Yakus {
		m := missingFor(y, counts)
		if best < 0 || m < best {
			best = m
		}
	}
	return max(best, 0)
}

// YakuProgress 每个役按 point/(missing+1) 累加，越接近高分役越大
func YakuProgress(hand []Tile, rule *Rule, yakus []Yaku) float64 {
	counts := countTiles(hand)
	score := 0.0
	for _, y := range yakus {
		score += float64(y.Point) / float64(missingFor(y, counts)+1)
	}
	return score
}

// TenpaiWaits 手牌比和牌张数少一张时，返回补哪些牌种能和；顺序同规则里的牌种顺序
func TenpaiWaits(hand []Tile, rule *Rule) []string {
	if len(hand) != rule.WinHandSize-1 {
		return nil
	}
	var waits []string
	for _, kind := range rule.Tiles {
		candidate := WithTile(hand, NewTile(kind, "wait"))
		if CanWin(candidate, rule) {
			waits = append(waits, kind.ID)
		}
	}
	return waits
}

func IsTenpai(hand []Tile, rule *Rule) bool {
	return len(TenpaiWaits(hand, rule)) > 0
}

// ReachDiscards 手牌为和牌张数时，返回打出后能听牌的牌 ID，顺序同手牌
func ReachDiscards(hand []Tile, rule *Rule) []string {
	return reachDiscards(hand, rule, IsTenpai)
}

func reachDiscards(hand []Tile, rule *Rule, tenpai func([]Tile, *Rule) bool) []string {
	if len(hand) != rule.WinHandSize {
		return nil
	}
	var ids []string
	for _, t := range hand {
		rest, _, _ := RemoveTile(hand, t.ID)
		if tenpai(rest, rule) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
