package mahjong

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

const (
	StrategyHuman         = "human"
	StrategyRandom        = "random"
	StrategyYakuProgress  = "yaku-progress"
	StrategyAvoidDealIn   = "avoid-dealin"
	StrategyAgariPriority = "agari-priority"
	StrategyHighScore     = "high-score"
)

// HighScoreThreshold 高分优先只看分数超过该值的役
const HighScoreThreshold = 100000

var ErrUnknownStrategy = errors.New("unknown strategy")

// StrategyContext 出牌时可见的场况
type StrategyContext struct {
	Seat      int
	Discards  [SeatCount][]Tile
	LastReach int
	Reached   [SeatCount]bool
}

// NewStrategyContext 从对局状态取出 seat 可见的信息
func NewStrategyContext(s *GameState, seat int) *StrategyContext {
	return &StrategyContext{
		Seat:      seat,
		Discards:  s.Discards,
		LastReach: s.LastReach,
		Reached:   s.Reached,
	}
}

// Strategy AI 出牌策略，返回要打出的牌 ID，false 表示不做决定
type Strategy interface {
	ID() string
	Name() string
	// Manual 人工操作的座位，自动推进时要等待外部输入
	Manual() bool
	DecideDiscard(hand []Tile, rule *Rule, ctx *StrategyContext) (string, bool)
}

type strategyFunc struct {
	id     string
	name   string
	manual bool
	decide func(hand []Tile, rule *Rule, ctx *StrategyContext) (string, bool)
}

func (s *strategyFunc) ID() string   { return s.id }
func (s *strategyFunc) Name() string { return s.name }
func (s *strategyFunc) Manual() bool { return s.manual }

func (s *strategyFunc) DecideDiscard(hand []Tile, rule *Rule, ctx *StrategyContext) (string, bool) {
	if len(hand) == 0 {
		return "", false
	}
	return s.decide(hand, rule, ctx)
}

var strategyNames = []struct{ id, name string }{
	{StrategyHuman, "人工操作"},
	{StrategyRandom, "随机"},
	{StrategyYakuProgress, "役优先"},
	{StrategyAvoidDealIn, "避免放铳"},
	{StrategyAgariPriority, "和牌优先"},
	{StrategyHighScore, "高分优先"},
}

// StrategyIDs 所有内置策略，顺序固定
func StrategyIDs() []string {
	ids := make([]string, len(strategyNames))
	for i, s := range strategyNames {
		ids[i] = s.id
	}
	return ids
}

func StrategyName(id string) string {
	for _, s := range strategyNames {
		if s.id == id {
			return s.name
		}
	}
	return id
}

// NewStrategy 按 ID 创建策略；rng 由调用方注入，同一个 rng 不能跨 goroutine 共享
func NewStrategy(id string, rng *rand.Rand, searcher *Searcher) (Strategy, error) {
	s := &strategyFunc{id: id, name: StrategyName(id)}
	switch id {
	case StrategyHuman:
		s.manual = true
		s.decide = func([]Tile, *Rule, *StrategyContext) (string, bool) { return "", false }
	case StrategyRandom:
		s.decide = func(hand []Tile, _ *Rule, _ *StrategyContext) (string, bool) {
			return randomDiscard(hand, rng), true
		}
	case StrategyYakuProgress:
		s.decide = func(hand []Tile, rule *Rule, _ *StrategyContext) (string, bool) {
			return discardByYakuProgress(hand, rule, rule.Yakus), true
		}
	case StrategyAvoidDealIn:
		s.decide = func(hand []Tile, rule *Rule, ctx *StrategyContext) (string, bool) {
			if id, ok := safeDiscard(hand, ctx); ok {
				return id, true
			}
			return discardByYakuProgress(hand, rule, rule.Yakus), true
		}
	case StrategyAgariPriority:
		s.decide = func(hand []Tile, rule *Rule, _ *StrategyContext) (string, bool) {
			return discardByAgariPriority(hand, rule, searcher), true
		}
	case StrategyHighScore:
		s.decide = func(hand []Tile, rule *Rule, _ *StrategyContext) (string, bool) {
			high := highValueYakus(rule)
			if len(high) == 0 {
				return randomDiscard(hand, rng), true
			}
			return discardByYakuProgress(hand, rule, high), true
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, id)
	}
	return s, nil
}

func randomDiscard(hand []Tile, rng *rand.Rand) string {
	return hand[rng.Intn(len(hand))].ID
}

// pickDiscard 逐张试打，取评分最高的，同分保留手牌顺序中最先出现的
func pickDiscard(hand []Tile, score func(rest []Tile) float64) string {
	bestID := hand[0].ID
	bestScore := math.Inf(-1)
	for _, t := range hand {
		rest, _, _ := RemoveTile(hand, t.ID)
		if sc := score(rest); sc > bestScore {
			bestScore = sc
			bestID = t.ID
		}
	}
	return bestID
}

func discardByYakuProgress(hand []Tile, rule *Rule, yakus []Yaku) string {
	return pickDiscard(hand, func(rest []Tile) float64 {
		return YakuProgress(rest, rule, yakus)
	})
}

// safeDiscard 有其他家立直时，从其牌河由新到旧找同名的牌打出
func safeDiscard(hand []Tile, ctx *StrategyContext) (string, bool) {
	if ctx == nil || !validSeat(ctx.LastReach) || ctx.LastReach == ctx.Seat {
		return "", false
	}
	river := ctx.Discards[ctx.LastReach]
	for i := len(river) - 1; i >= 0; i-- {
		for _, t := range hand {
			if t.Name == river[i].Name {
				return t.ID, true
			}
		}
	}
	return "", false
}

// discardByAgariPriority 听牌优先且听牌面越宽越好，未听牌时取最少缺张
func discardByAgariPriority(hand []Tile, rule *Rule, searcher *Searcher) string {
	return pickDiscard(hand, func(rest []Tile) float64 {
		if waits := searcher.Waits(rest, rule); len(waits) > 0 {
			return float64(1000 + len(waits))
		}
		return -float64(MinMissing(rest, rule))
	})
}

func highValueYakus(rule *Rule) []Yaku {
	var high []Yaku
	for _, y := range rule.Yakus {
		if y.Point > HighScoreThreshold {
			high = append(high, y)
		}
	}
	return high
}
