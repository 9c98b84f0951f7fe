package game

import (
	"sync"
	"testing"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allAI() [mahjong.SeatCount]string {
	return [mahjong.SeatCount]string{
		mahjong.StrategyRandom,
		mahjong.StrategyYakuProgress,
		mahjong.StrategyAvoidDealIn,
		mahjong.StrategyAgariPriority,
	}
}

func newTestTable(t *testing.T, humanSeat int) *Table {
	t.Helper()
	table, err := NewTable(TableOptions{
		ID:         "test",
		Rule:       mahjong.DefaultRule(),
		Strategies: allAI(),
		HumanSeat:  humanSeat,
		AutoReach:  true,
		Seed:       7,
		Searcher:   mahjong.NewSearcher(nil),
	})
	require.NoError(t, err)
	table.Start()
	t.Cleanup(table.Close)
	return table
}

func TestNewTable_RejectsUnknownStrategy(t *testing.T) {
	strategies := allAI()
	strategies[2] = "psychic"
	_, err := NewTable(TableOptions{Strategies: strategies, HumanSeat: mahjong.NoSeat})
	require.ErrorIs(t, err, mahjong.ErrUnknownStrategy)

	_, err = NewTable(TableOptions{Strategies: allAI(), HumanSeat: 4})
	require.Error(t, err)
}

func TestTable_HumanSeatIsManual(t *testing.T) {
	table := newTestTable(t, 1)
	assert.Equal(t, mahjong.StrategyHuman, table.Strategies()[1])
	assert.Equal(t, 1, table.HumanSeat())
}

func TestTable_AutoPlayFinishesHand(t *testing.T) {
	table := newTestTable(t, mahjong.NoSeat)

	var mu sync.Mutex
	var views []mahjong.View
	table.Subscribe(func(v mahjong.View) {
		mu.Lock()
		views = append(views, v)
		mu.Unlock()
	})

	require.NoError(t, table.StartHand())
	require.Eventually(t, func() bool {
		return table.State().Ended()
	}, 5*time.Second, 5*time.Millisecond)

	s := table.State()
	assert.True(t, s.Win != nil || s.Draw != nil)
	assert.Equal(t, 1, table.HandsPlayed())

	total := 0
	for _, score := range s.Scores {
		total += score
	}
	assert.Equal(t, mahjong.SeatCount*s.Rule.InitialScore, total)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, views)
	assert.Equal(t, mahjong.PhaseIdle, views[0].State.Phase, "subscribe pushes the current view first")
	assert.True(t, views[len(views)-1].CanStart)
}

func TestTable_WaitsForHumanDiscard(t *testing.T) {
	table := newTestTable(t, 0)
	require.NoError(t, table.StartHand())

	require.Eventually(t, func() bool {
		s := table.State()
		return s.Ended() || (s.Phase == mahjong.PhaseDiscard && s.Turn == 0)
	}, 5*time.Second, 5*time.Millisecond)

	s := table.State()
	if s.Ended() {
		t.Skip("hand ended before the human seat had to discard")
	}

	// 轮到人工座位时不会自动推进
	time.Sleep(50 * time.Millisecond)
	assert.Same(t, s, table.State())

	v := table.View()
	require.NotEmpty(t, v.LegalDiscards)
	require.NoError(t, table.Discard(v.LegalDiscards[0]))
	require.Eventually(t, func() bool {
		return table.State() != s
	}, time.Second, 5*time.Millisecond)
	next := table.State()
	if next.Win != nil && next.Win.Kind == mahjong.WinRon && next.Win.Loser == 0 {
		return
	}
	assert.Len(t, next.Discards[0], len(s.Discards[0])+1)
}

func TestTable_IgnoresCommandsForOtherSeats(t *testing.T) {
	table := newTestTable(t, 0)
	before := table.State()

	table.NotifyEvent(&DiscardEvent{Seat: 2, TileID: "red-1"})
	table.NotifyEvent(&DeclareReachEvent{Seat: 3})
	time.Sleep(30 * time.Millisecond)
	assert.Same(t, before, table.State())
}

func TestTable_ChangeRuleAppliesOnNextHand(t *testing.T) {
	table := newTestTable(t, mahjong.NoSeat)
	rule := mahjong.DefaultRule()
	rule.Name = "Short"
	rule.HandSize = 5
	rule.WinHandSize = 6

	require.NoError(t, table.ChangeRule(rule))
	require.NoError(t, table.StartHand())
	require.Eventually(t, func() bool {
		return table.State().Rule.Name == "Short"
	}, time.Second, 5*time.Millisecond)
}

func TestTable_CloseIsIdempotent(t *testing.T) {
	table := newTestTable(t, mahjong.NoSeat)
	require.NoError(t, table.StartHand())

	table.Close()
	table.Close()
	assert.ErrorIs(t, table.StartHand(), ErrTableClosed)
	assert.False(t, table.scheduler.Pending())

	frozen := table.State()
	time.Sleep(30 * time.Millisecond)
	assert.Same(t, frozen, table.State())
}

func TestTable_StepIsQueuedWhenEventQueueIsFull(t *testing.T) {
	table, err := NewTable(TableOptions{ID: "full", Strategies: allAI(), HumanSeat: mahjong.NoSeat, Seed: 3})
	require.NoError(t, err)
	defer table.Close()

	// actor 未启动，先把队列塞满
	for i := 0; i < cap(table.events); i++ {
		table.NotifyEvent(&StartHandEvent{})
	}
	require.Len(t, table.events, cap(table.events))
	table.NotifyEvent(&StartHandEvent{})
	assert.Len(t, table.events, cap(table.events), "commands are dropped when the queue is full")

	delivered := make(chan struct{})
	go func() {
		table.notifyStep(42)
		close(delivered)
	}()
	select {
	case <-delivered:
		t.Fatal("step returned before there was room in the queue")
	case <-time.After(50 * time.Millisecond):
	}

	<-table.events
	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("step was not queued after room was made")
	}

	var last TableEvent
	for len(table.events) > 0 {
		last = <-table.events
	}
	step, ok := last.(*stepEvent)
	require.True(t, ok, "step should be the newest event, got %T", last)
	assert.Equal(t, uint64(42), step.Generation)
}

func TestTable_CloseReleasesBlockedStep(t *testing.T) {
	table, err := NewTable(TableOptions{ID: "closing", Strategies: allAI(), HumanSeat: mahjong.NoSeat, Seed: 3})
	require.NoError(t, err)
	for i := 0; i < cap(table.events); i++ {
		table.NotifyEvent(&StartHandEvent{})
	}

	delivered := make(chan struct{})
	go func() {
		table.notifyStep(1)
		close(delivered)
	}()
	table.Close()
	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("closing the table should release a blocked step")
	}
}
