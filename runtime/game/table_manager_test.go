package game

import (
	"testing"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableManager_Lifecycle(t *testing.T) {
	tm := NewTableManager(mahjong.NewSearcher(nil))
	defer tm.CloseAll()

	table, err := tm.CreateTable(TableOptions{
		Rule:       mahjong.DefaultRule(),
		Strategies: allAI(),
		HumanSeat:  mahjong.NoSeat,
		Seed:       11,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, table.ID)

	got, ok := tm.GetTable(table.ID)
	require.True(t, ok)
	assert.Same(t, table, got)

	_, err = tm.CreateTable(TableOptions{ID: table.ID, Strategies: allAI(), HumanSeat: mahjong.NoSeat})
	assert.Error(t, err)

	require.NoError(t, table.StartHand())
	require.Eventually(t, func() bool {
		_, hands := tm.GetStats()
		return hands == 1
	}, 5*time.Second, 5*time.Millisecond)

	tables, _ := tm.GetStats()
	assert.Equal(t, 1, tables)
	// 对局过程只留在内存里的运行日志中
	assert.NotEmpty(t, table.State().Log)

	require.NoError(t, tm.DeleteTable(table.ID))
	assert.Error(t, tm.DeleteTable(table.ID))
	_, ok = tm.GetTable(table.ID)
	assert.False(t, ok)
}

func TestTableManager_ChangeRule(t *testing.T) {
	tm := NewTableManager(nil)
	defer tm.CloseAll()

	table, err := tm.CreateTable(TableOptions{Strategies: allAI(), HumanSeat: mahjong.NoSeat, Seed: 5})
	require.NoError(t, err)

	rule := mahjong.DefaultRule()
	rule.Name = "Hot"
	tm.ChangeRule(rule)
	require.NoError(t, table.StartHand())
	require.Eventually(t, func() bool {
		return table.State().Rule.Name == "Hot"
	}, time.Second, 5*time.Millisecond)
}
