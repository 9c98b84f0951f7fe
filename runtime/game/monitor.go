package game

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/shirou/gopsutil/v3/process"
)

// StatsFunc 返回牌桌数和已结束的局数
type StatsFunc func() (tableCount int, handCount int)

// Monitor 定期采样进程 CPU 和内存并写日志
type Monitor struct {
	stats          StatsFunc
	updateInterval time.Duration
	proc           *process.Process
	stopCh         chan struct{}
	stopOnce       sync.Once

	mu   sync.RWMutex
	last LoadInfo
}

// NewMonitor stats 可以为空
func NewMonitor(stats StatsFunc, updateInterval time.Duration) *Monitor {
	if updateInterval <= 0 {
		updateInterval = 5 * time.Second
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Monitor 获取进程信息失败，只统计牌桌: %v", err)
		proc = nil
	}
	return &Monitor{
		stats:          stats,
		updateInterval: updateInterval,
		proc:           proc,
		stopCh:         make(chan struct{}),
	}
}

// Start 阻塞运行，直到 ctx 取消或 Stop
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	m.reportLoad()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Monitor 收到停止信号，退出监控")
			return
		case <-m.stopCh:
			log.Debug("Monitor 收到停止信号，退出监控")
			return
		case <-ticker.C:
			m.reportLoad()
		}
	}
}

// Stop 可重复调用
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

// Last 最近一次采样
func (m *Monitor) Last() LoadInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

func (m *Monitor) reportLoad() {
	info := m.Collect()
	m.mu.Lock()
	m.last = info
	m.mu.Unlock()

	log.Info("Monitor 负载: Load=%.2f, Tables=%d, Hands=%d, CPU=%.2f%%, Mem=%.2f%%, RSS=%dMB",
		info.CalculateLoad(), info.TableCount, info.HandCount, info.CPUUsage, info.MemUsage, info.RSS>>20)
}

// Collect 采样一次，采样失败的项记为 0
func (m *Monitor) Collect() LoadInfo {
	var info LoadInfo
	if m.stats != nil {
		info.TableCount, info.HandCount = m.stats()
	}
	if m.proc == nil {
		return info
	}
	if cpu, err := m.proc.CPUPercent(); err == nil {
		info.CPUUsage = cpu
	} else {
		log.Debug("Monitor 采样 CPU 失败: %v", err)
	}
	if mem, err := m.proc.MemoryPercent(); err == nil {
		info.MemUsage = float64(mem)
	} else {
		log.Debug("Monitor 采样内存占比失败: %v", err)
	}
	if mi, err := m.proc.MemoryInfo(); err == nil {
		info.RSS = mi.RSS
	}
	return info
}
