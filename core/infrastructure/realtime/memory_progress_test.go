package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/core/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProgressStoreSaveGetDelete(t *testing.T) {
	store, err := NewMemoryProgressStore(1 << 10)
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	p := &repository.Progress{RunID: "run-1", Mode: "games", Target: 10, Games: 4, Wins: [4]int{1, 2, 0, 1}, Running: true}
	require.NoError(t, store.SaveProgress(ctx, p, time.Minute))

	// 保存的是快照，之后修改原对象不影响
	p.Games = 9

	got, err := store.GetProgress(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Games)
	assert.Equal(t, [4]int{1, 2, 0, 1}, got.Wins)

	require.NoError(t, store.DeleteProgress(ctx, "run-1"))
	_, err = store.GetProgress(ctx, "run-1")
	assert.ErrorIs(t, err, repository.ErrProgressNotFound)
}

func TestMemoryProgressStoreMissing(t *testing.T) {
	store, err := NewMemoryProgressStore(1 << 10)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.GetProgress(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrProgressNotFound)
}
