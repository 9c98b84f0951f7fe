package batch

import (
	"testing"

	"github.com/Hachijin-Okamoto/anyjara/core/domain/entity"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
	"github.com/stretchr/testify/assert"
)

func TestSession_RecordHandAndSet(t *testing.T) {
	s := newSession("run-1", Options{Rule: mahjong.DefaultRule(), Mode: ModeSets, Target: 1, Strategies: aiSeats()})

	win := &mahjong.GameState{Win: &mahjong.WinInfo{Winner: 2, Deltas: [mahjong.SeatCount]int{-1, -1, 3, -1}}}
	s.recordHand(win)
	draw := &mahjong.GameState{Draw: &mahjong.DrawInfo{Reason: mahjong.DrawReasonExhausted}}
	s.recordHand(draw)

	assert.Equal(t, 2, s.Games)
	assert.Equal(t, 1, s.Draws)
	assert.Equal(t, [mahjong.SeatCount]int{0, 0, 1, 0}, s.Wins)
	assert.Equal(t, [mahjong.SeatCount]int{-1, -1, 3, -1}, s.Scores)
	assert.False(t, s.Done())

	// 同分时离起始庄家近的名次靠前
	s.recordSet(&mahjong.GameState{Scores: [mahjong.SeatCount]int{4, 4, 8, 4}, SetDealer: 1})
	assert.Equal(t, 1, s.Rankings[2][0])
	assert.Equal(t, 1, s.Rankings[1][1])
	assert.Equal(t, 1, s.Rankings[3][2])
	assert.Equal(t, 1, s.Rankings[0][3])
	assert.True(t, s.Done())
}

func TestSession_GamesModeDone(t *testing.T) {
	s := newSession("run-2", Options{Rule: mahjong.DefaultRule(), Mode: ModeGames, Target: 1, Strategies: aiSeats()})
	assert.False(t, s.Done())
	s.recordHand(&mahjong.GameState{Draw: &mahjong.DrawInfo{Reason: mahjong.DrawReasonExhausted}})
	assert.True(t, s.Done())
}

func TestSession_Record(t *testing.T) {
	s := newSession("run-3", Options{Rule: mahjong.DefaultRule(), Mode: ModeGames, Target: 3, Strategies: aiSeats()})
	s.Games = 2
	s.Wins = [mahjong.SeatCount]int{1, 0, 1, 0}

	seats := aiSeats()
	record := s.Record(entity.EvaluationStatusCancelled)
	assert.Equal(t, "run-3", record.RunID)
	assert.Equal(t, mahjong.DefaultRuleName, record.RuleName)
	assert.Equal(t, seats[:], record.Strategies)
	assert.Equal(t, 2, record.Games)
	assert.Equal(t, s.Wins, record.Wins)
	assert.Equal(t, entity.EvaluationStatusCancelled, record.Status)
	assert.False(t, record.EndTime.Before(record.StartTime))

	p := s.Progress()
	assert.Equal(t, "run-3", p.RunID)
	assert.True(t, p.Running)
	assert.Equal(t, 3, p.Target)
}
