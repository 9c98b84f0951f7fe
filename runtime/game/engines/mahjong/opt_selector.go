package mahjong

import "slices"

// Seats 四个座位的策略
type Seats [SeatCount]Strategy

// NextAction 自动推进时的下一步：摸牌阶段直接摸，出牌阶段交给该座位的策略
// 返回 false 表示需要等待外部输入（空闲、已结束或轮到人工座位）
func NextAction(s *GameState, seats Seats, searcher *Searcher, autoReach bool) (Action, bool) {
	switch s.Phase {
	case PhaseDraw:
		return Draw(), true
	case PhaseDiscard:
	default:
		return Action{}, false
	}

	seat := s.Turn
	st := seats[seat]
	if st == nil || st.Manual() {
		return Action{}, false
	}
	hand := s.Hands[seat]
	ctx := NewStrategyContext(s, seat)

	// 立直后摸切
	if s.Reached[seat] && s.LastDrawn[seat] != "" {
		return Discard(seat, s.LastDrawn[seat]), true
	}
	if s.ReachPending[seat] {
		options := s.ReachOptions[seat]
		if id, ok := st.DecideDiscard(hand, s.Rule, ctx); ok && slices.Contains(options, id) {
			return Discard(seat, id), true
		}
		if len(options) == 0 {
			return Action{}, false
		}
		return Discard(seat, options[0]), true
	}
	if autoReach && !s.Reached[seat] && len(searcher.ReachDiscards(hand, s.Rule)) > 0 {
		return DeclareReach(seat), true
	}

	id, ok := st.DecideDiscard(hand, s.Rule, ctx)
	if !ok {
		return Action{}, false
	}
	return Discard(seat, id), true
}
