package mahjong

import (
	"math/rand"
	"slices"

	"github.com/Hachijin-Okamoto/anyjara/common/log"
)

type ActionType string

const (
	ActionStartGame    ActionType = "start"
	ActionDraw         ActionType = "draw"
	ActionDiscard      ActionType = "discard"
	ActionDeclareReach ActionType = "reach"
)

// Action 对局状态机的输入
type Action struct {
	Type   ActionType `json:"type"`
	Seat   int        `json:"seat"`
	TileID string     `json:"tileId,omitempty"`
	// Rule 仅开局时有效，非空则下一局换用该规则
	Rule *Rule `json:"-"`
}

func StartGame() Action { return Action{Type: ActionStartGame} }

// StartGameWithRule 开局并切换规则，下一盘才会用新的起始分
func StartGameWithRule(rule *Rule) Action { return Action{Type: ActionStartGame, Rule: rule} }

func Draw() Action { return Action{Type: ActionDraw} }

func Discard(seat int, tileID string) Action {
	return Action{Type: ActionDiscard, Seat: seat, TileID: tileID}
}

func DeclareReach(seat int) Action { return Action{Type: ActionDeclareReach, Seat: seat} }

// TurnManager 对局状态机：Apply(state, action) 返回新状态，非法操作原样返回
type TurnManager struct {
	rng      *rand.Rand
	searcher *Searcher
}

func NewTurnManager(rng *rand.Rand, searcher *Searcher) *TurnManager {
	return &TurnManager{rng: rng, searcher: searcher}
}

func (tm *TurnManager) Searcher() *Searcher {
	return tm.searcher
}

func (tm *TurnManager) Apply(s *GameState, a Action) *GameState {
	var next *GameState
	switch a.Type {
	case ActionStartGame:
		next = tm.startGame(s, a.Rule)
	case ActionDraw:
		next = tm.draw(s)
	case ActionDiscard:
		next = tm.discard(s, a.Seat, a.TileID)
	case ActionDeclareReach:
		next = tm.declareReach(s, a.Seat)
	}
	if next == nil {
		log.Debug("忽略非法操作: type=%s seat=%d tile=%s phase=%s turn=%d", a.Type, a.Seat, a.TileID, s.Phase, s.Turn)
		return s
	}
	return next
}

// tenpaiFlag 少一张时看是否听牌，和牌张数时看能否打出某张后听牌
func (tm *TurnManager) tenpaiFlag(hand []Tile, rule *Rule) bool {
	switch len(hand) {
	case rule.WinHandSize - 1:
		return tm.searcher.IsTenpai(hand, rule)
	case rule.WinHandSize:
		return len(tm.searcher.ReachDiscards(hand, rule)) > 0
	}
	return false
}

func (tm *TurnManager) startGame(s *GameState, rule *Rule) *GameState {
	if s.Phase != PhaseIdle && s.Phase != PhaseEnd {
		return nil
	}
	next := s.clone()
	if rule != nil {
		next.Rule = rule
	}
	rule = next.Rule

	if s.SetNumber == 0 || s.SetOver {
		dealer := tm.rng.Intn(SeatCount)
		next.Dealer = dealer
		next.SetDealer = dealer
		next.DealerCycles = 0
		next.SetOver = false
		next.SetNumber++
		next.HandNumber = 1
		for seat := range next.Scores {
			next.Scores[seat] = rule.InitialScore
		}
	} else {
		next.HandNumber++
	}

	hands, wall := Deal(Shuffle(BuildWall(rule), tm.rng), rule.HandSize)
	next.Wall = wall
	for seat := range hands {
		next.Hands[seat] = SortHand(hands[seat])
		next.Tenpai[seat] = tm.tenpaiFlag(next.Hands[seat], rule)
	}
	next.Discards = [SeatCount][]Tile{}
	next.LastDrawn = [SeatCount]string{}
	next.Reached = [SeatCount]bool{}
	next.ReachPending = [SeatCount]bool{}
	next.ReachDiscard = [SeatCount]string{}
	next.ReachOptions = [SeatCount][]string{}
	next.LastReach = NoSeat
	next.Turn = next.Dealer
	next.Phase = PhaseDraw
	next.Win = nil
	next.Draw = nil
	next.Log = nil
	next.logf("第 %d 盘 第 %d 局开始，庄家 P%d，牌山 %d 张", next.SetNumber, next.HandNumber, next.Dealer, len(wall))
	return next
}

func (tm *TurnManager) draw(s *GameState) *GameState {
	if s.Phase != PhaseDraw {
		return nil
	}
	next := s.clone()
	seat := s.Turn

	tile, wall, ok := DrawFront(s.Wall)
	if !ok {
		next.Phase = PhaseEnd
		next.Draw = &DrawInfo{Reason: DrawReasonExhausted}
		next.advanceDealer(NoSeat)
		next.logf("牌山已空，流局")
		return next
	}

	hand := SortHand(WithTile(s.Hands[seat], tile))
	next.Wall = wall
	next.Hands[seat] = hand
	next.LastDrawn[seat] = tile.ID
	next.Tenpai[seat] = tm.tenpaiFlag(hand, s.Rule)

	if CanWin(hand, s.Rule) {
		next.logf("P%d 摸到 %s，自摸", seat, tile.Label)
		next.settleWin(seat, NoSeat, WinTsumo, tile, hand)
		next.logf("役: %s，%d 点", next.Win.Yaku.Name, next.Win.Points)
		return next
	}
	next.Phase = PhaseDiscard
	next.logf("P%d 摸到 %s", seat, tile.Label)
	return next
}

func (tm *TurnManager) discard(s *GameState, seat int, tileID string) *GameState {
	if s.Phase != PhaseDiscard || seat != s.Turn {
		return nil
	}
	if s.Reached[seat] && tileID != s.LastDrawn[seat] {
		return nil
	}
	if s.ReachPending[seat] && !slices.Contains(s.ReachOptions[seat], tileID) {
		return nil
	}
	rest, tile, ok := RemoveTile(s.Hands[seat], tileID)
	if !ok {
		return nil
	}

	next := s.clone()
	hand := SortHand(rest)
	next.Hands[seat] = hand
	next.Discards[seat] = WithTile(s.Discards[seat], tile)
	next.LastDrawn[seat] = ""
	next.Tenpai[seat] = tm.tenpaiFlag(hand, s.Rule)
	if s.ReachPending[seat] {
		next.ReachPending[seat] = false
		next.Reached[seat] = true
		next.ReachDiscard[seat] = tile.ID
		next.ReachOptions[seat] = nil
		next.logf("P%d 打出 %s，立直成立", seat, tile.Label)
	} else {
		next.logf("P%d 打出 %s", seat, tile.Label)
	}

	// 从下家开始按轮转顺序检查荣和，只取第一家
	for off := 1; off < SeatCount; off++ {
		claimer := (seat + off) % SeatCount
		candidate := WithTile(s.Hands[claimer], tile)
		if !CanWin(candidate, s.Rule) {
			continue
		}
		winHand := SortHand(candidate)
		next.Discards[seat] = s.Discards[seat]
		next.Hands[claimer] = winHand
		next.Tenpai[claimer] = tm.tenpaiFlag(winHand, s.Rule)
		next.logf("P%d 荣和 P%d 的 %s", claimer, seat, tile.Label)
		next.settleWin(claimer, seat, WinRon, tile, winHand)
		next.logf("役: %s，%d 点", next.Win.Yaku.Name, next.Win.Points)
		return next
	}

	next.Turn = NextSeat(seat)
	next.Phase = PhaseDraw
	return next
}

func (tm *TurnManager) declareReach(s *GameState, seat int) *GameState {
	if s.Phase != PhaseDiscard || seat != s.Turn {
		return nil
	}
	if s.Reached[seat] || s.ReachPending[seat] {
		return nil
	}
	options := tm.searcher.ReachDiscards(s.Hands[seat], s.Rule)
	if len(options) == 0 {
		return nil
	}
	next := s.clone()
	next.ReachPending[seat] = true
	next.ReachOptions[seat] = options
	next.LastReach = seat
	next.logf("P%d 宣言立直", seat)
	return next
}
