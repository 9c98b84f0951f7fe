package mahjong

import (
	"fmt"
	"slices"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseDraw    Phase = "draw"
	PhaseDiscard Phase = "discard"
	PhaseEnd     Phase = "end"
)

type WinKind string

const (
	WinTsumo WinKind = "tsumo"
	WinRon   WinKind = "ron"
)

const DrawReasonExhausted = "exhausted"

// WinInfo 和牌结算
type WinInfo struct {
	Winner   int            `json:"winner"`
	Loser    int            `json:"loser"` // 自摸为 NoSeat
	Kind     WinKind        `json:"kind"`
	Tile     Tile           `json:"tile"`
	Yaku     Yaku           `json:"yaku"`
	Points   int            `json:"points"`
	Deltas   [SeatCount]int `json:"deltas"`
	Achieved []Yaku         `json:"achieved"`
}

// DrawInfo 流局
type DrawInfo struct {
	Reason string `json:"reason"`
}

// GameState 一局的完整状态，每次转移整体替换，不在原地修改
type GameState struct {
	Rule *Rule `json:"-"`

	Wall      []Tile            `json:"wall"`
	Hands     [SeatCount][]Tile `json:"hands"`
	Discards  [SeatCount][]Tile `json:"discards"`
	LastDrawn [SeatCount]string `json:"lastDrawn"`
	Tenpai    [SeatCount]bool   `json:"tenpai"`

	Reached      [SeatCount]bool     `json:"reached"`
	ReachPending [SeatCount]bool     `json:"reachPending"`
	ReachDiscard [SeatCount]string   `json:"reachDiscard"` // 宣言立直时打出的牌
	ReachOptions [SeatCount][]string `json:"reachOptions"`
	LastReach    int                 `json:"lastReach"`

	Scores       [SeatCount]int `json:"scores"`
	Dealer       int            `json:"dealer"`
	SetDealer    int            `json:"setDealer"` // 本盘起始庄家
	DealerCycles int            `json:"dealerCycles"`
	HandNumber   int            `json:"handNumber"`
	SetNumber    int            `json:"setNumber"`
	SetOver      bool           `json:"setOver"`

	Turn  int       `json:"turn"`
	Phase Phase     `json:"phase"`
	Log   []string  `json:"log"`
	Win   *WinInfo  `json:"win,omitempty"`
	Draw  *DrawInfo `json:"draw,omitempty"`
}

// NewGameState 空闲状态，等待开局
func NewGameState(rule *Rule) *GameState {
	s := &GameState{
		Rule:      rule,
		LastReach: NoSeat,
		Phase:     PhaseIdle,
		Log:       []string{"等待开局"},
	}
	for seat := range s.Scores {
		s.Scores[seat] = rule.InitialScore
	}
	return s
}

// clone 浅拷贝，切片共享，修改时必须整体替换
func (s *GameState) clone() *GameState {
	next := *s
	return &next
}

// logf 追加日志，Clip 保证不会写进旧状态的底层数组
func (s *GameState) logf(format string, args ...any) {
	s.Log = append(slices.Clip(s.Log), fmt.Sprintf(format, args...))
}

func (s *GameState) WallCount() int {
	return len(s.Wall)
}

// Ended 本局已结束（和牌或流局）
func (s *GameState) Ended() bool {
	return s.Phase == PhaseEnd
}

// NextSeat 固定轮转顺序的下家
func NextSeat(seat int) int {
	return (seat + 1) % SeatCount
}

func validSeat(seat int) bool {
	return seat >= 0 && seat < SeatCount
}
