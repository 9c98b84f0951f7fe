package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_Collect(t *testing.T) {
	m := NewMonitor(func() (int, int) { return 2, 9 }, time.Hour)
	info := m.Collect()
	assert.Equal(t, 2, info.TableCount)
	assert.Equal(t, 9, info.HandCount)
	assert.GreaterOrEqual(t, info.CPUUsage, 0.0)
	assert.GreaterOrEqual(t, info.CalculateLoad(), 0.0)
}

func TestMonitor_StartStop(t *testing.T) {
	m := NewMonitor(nil, 10*time.Millisecond)
	done := make(chan struct{})
	go func() {
		m.Start(context.Background())
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	m.Stop()
	m.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestLoadInfo_CalculateLoad(t *testing.T) {
	idle := LoadInfo{}
	busy := LoadInfo{TableCount: 500, CPUUsage: 250, MemUsage: 40}
	assert.Zero(t, idle.CalculateLoad())
	assert.InDelta(t, 100*0.5+40*0.3+100*0.2, busy.CalculateLoad(), 1e-9)
}
