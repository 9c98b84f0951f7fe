package mahjong

import (
	"slices"
)

// SelfDrawDeltas 自摸：三家平摊 points，除不尽的余数由 winner 之后的座位依次多付 1 点
// winner 恰好得到 points，四家合计为 0
func SelfDrawDeltas(winner, points int) [SeatCount]int {
	var deltas [SeatCount]int
	share, rem := points/(SeatCount-1), points%(SeatCount-1)
	seat := winner
	for i := 0; i < SeatCount-1; i++ {
		seat = NextSeat(seat)
		pay := share
		if i < rem {
			pay++
		}
		deltas[seat] = -pay
	}
	deltas[winner] = points
	return deltas
}

// RonDeltas 荣和：放铳者一人支付
func RonDeltas(winner, loser, points int) [SeatCount]int {
	var deltas [SeatCount]int
	deltas[winner] = points
	deltas[loser] = -points
	return deltas
}

func (s *GameState) applyDeltas(deltas [SeatCount]int) {
	for seat, d := range deltas {
		s.Scores[seat] += d
	}
}

// settleWin 结算和牌并轮庄
func (s *GameState) settleWin(winner, loser int, kind WinKind, tile Tile, hand []Tile) {
	ev := EvaluateYaku(hand, s.Rule)
	info := &WinInfo{
		Winner:   winner,
		Loser:    loser,
		Kind:     kind,
		Tile:     tile,
		Achieved: ev.Achieved,
	}
	if ev.Best != nil {
		info.Yaku = *ev.Best
		info.Points = ev.Best.Point
	}
	if kind == WinTsumo {
		info.Deltas = SelfDrawDeltas(winner, info.Points)
	} else {
		info.Deltas = RonDeltas(winner, loser, info.Points)
	}
	s.applyDeltas(info.Deltas)
	s.Win = info
	s.Phase = PhaseEnd
	s.advanceDealer(winner)
}

// advanceDealer 庄家和牌连庄，否则下庄；轮回起始庄家计一圈，满 SetCycles 圈本盘结束
func (s *GameState) advanceDealer(winner int) {
	if winner == s.Dealer {
		return
	}
	s.Dealer = NextSeat(s.Dealer)
	if s.Dealer != s.SetDealer {
		return
	}
	s.DealerCycles++
	if s.DealerCycles >= s.Rule.SetCycles {
		s.SetOver = true
	}
}

// Ranking 按分数从高到低排列座位，同分时离起始庄家近的在前
func Ranking(scores [SeatCount]int, setDealer int) [SeatCount]int {
	seats := make([]int, SeatCount)
	for i := range seats {
		seats[i] = (setDealer + i) % SeatCount
	}
	slices.SortStableFunc(seats, func(a, b int) int {
		return scores[b] - scores[a]
	})
	var out [SeatCount]int
	copy(out[:], seats)
	return out
}
