package app

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/config"
	"github.com/Hachijin-Okamoto/anyjara/core/container"
	"github.com/Hachijin-Okamoto/anyjara/core/domain/entity"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer 监听在 actor goroutine 里写入
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig() *config.SimConfiguration {
	conf := config.Default()
	conf.BatchConf.Strategies = []string{"random", "yaku-progress", "avoid-dealin", "agari-priority"}
	return conf
}

func TestRun_BatchPrintsSummary(t *testing.T) {
	conf := testConfig()
	conf.BatchConf.Target = 3
	conf.BatchConf.Seed = 11

	var out syncBuffer
	err := Run(context.Background(), conf, func(ctx context.Context, c *container.GameContainer) error {
		return Batch(&out, BatchOptionsFromConfig(c))(ctx, c)
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), entity.EvaluationStatusCompleted)
	assert.Contains(t, out.String(), mahjong.StrategyName("agari-priority"))
}

func TestRun_PlayQuits(t *testing.T) {
	conf := testConfig()
	in := strings.NewReader("\nbogus\n99\nq\n")
	var out syncBuffer

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), conf, func(ctx context.Context, c *container.GameContainer) error {
			return Play(in, &out, PlayOptionsFromConfig(c))(ctx, c)
		})
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("play did not quit")
	}
	assert.Contains(t, out.String(), "无法识别的命令")
	assert.Contains(t, out.String(), mahjong.DefaultRuleName)
}

func TestRun_ContextCancelStopsServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, testConfig(), func(ctx context.Context, _ *container.GameContainer) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	<-started
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestRenderRules_MarksCurrent(t *testing.T) {
	out := RenderRules([]*mahjong.Rule{mahjong.DefaultRule()}, mahjong.DefaultRuleName)
	assert.Contains(t, out, "* "+mahjong.DefaultRuleName)
	assert.Contains(t, out, "任意同色 x3")
}

func TestRenderView_IdlePrompt(t *testing.T) {
	rule := mahjong.DefaultRule()
	s := mahjong.NewGameState(rule)
	out := RenderView(mahjong.BuildView(s, 0, nil), [mahjong.SeatCount]string{"human", "random", "random", "random"})
	assert.Contains(t, out, "回车开局")
	assert.Contains(t, out, "P3")
}
