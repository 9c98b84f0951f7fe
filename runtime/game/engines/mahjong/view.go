package mahjong

// SeatView 对外公开的座位信息
type SeatView struct {
	Seat         int    `json:"seat"`
	HandSize     int    `json:"handSize"`
	Discards     []Tile `json:"discards"`
	Score        int    `json:"score"`
	Tenpai       bool   `json:"tenpai"`
	Reached      bool   `json:"reached"`
	ReachPending bool   `json:"reachPending"`
	IsDealer     bool   `json:"isDealer"`
}

// View 某个座位视角下的渲染数据，State 只读
type View struct {
	State           *GameState          `json:"-"`
	Viewer          int                 `json:"viewer"`
	Hand            []Tile              `json:"hand"`
	Seats           [SeatCount]SeatView `json:"seats"`
	WallCount       int                 `json:"wallCount"`
	CanStart        bool                `json:"canStart"`
	LegalDiscards   []string            `json:"legalDiscards"`
	CanDeclareReach bool                `json:"canDeclareReach"`
	Waits           []string            `json:"waits"`
	Evaluation      Evaluation          `json:"evaluation"`
}

// LegalDiscards 当前可以打出的牌：立直后只能打摸到的牌，立直宣言中只能打立直候选
func LegalDiscards(s *GameState, seat int) []string {
	if s.Phase != PhaseDiscard || seat != s.Turn {
		return nil
	}
	switch {
	case s.Reached[seat]:
		if s.LastDrawn[seat] == "" {
			return nil
		}
		return []string{s.LastDrawn[seat]}
	case s.ReachPending[seat]:
		return append([]string(nil), s.ReachOptions[seat]...)
	}
	return TileIDs(s.Hands[seat])
}

// CanDeclareReach 轮到自己出牌、尚未立直且存在立直候选
func CanDeclareReach(s *GameState, seat int, searcher *Searcher) bool {
	if s.Phase != PhaseDiscard || seat != s.Turn {
		return false
	}
	if s.Reached[seat] || s.ReachPending[seat] {
		return false
	}
	return len(searcher.ReachDiscards(s.Hands[seat], s.Rule)) > 0
}

// BuildView 其他座位只公开张数、牌河和立直状态
func BuildView(s *GameState, viewer int, searcher *Searcher) View {
	v := View{
		State:     s,
		Viewer:    viewer,
		WallCount: s.WallCount(),
		CanStart:  s.Phase == PhaseIdle || s.Phase == PhaseEnd,
	}
	for seat := range v.Seats {
		v.Seats[seat] = SeatView{
			Seat:         seat,
			HandSize:     len(s.Hands[seat]),
			Discards:     s.Discards[seat],
			Score:        s.Scores[seat],
			Tenpai:       s.Tenpai[seat],
			Reached:      s.Reached[seat],
			ReachPending: s.ReachPending[seat],
			IsDealer:     seat == s.Dealer && s.Phase != PhaseIdle,
		}
	}
	if !validSeat(viewer) {
		return v
	}
	hand := s.Hands[viewer]
	v.Hand = hand
	v.LegalDiscards = LegalDiscards(s, viewer)
	v.CanDeclareReach = CanDeclareReach(s, viewer, searcher)
	v.Waits = searcher.Waits(hand, s.Rule)
	v.Evaluation = EvaluateYaku(hand, s.Rule)
	return v
}
