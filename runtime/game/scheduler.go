package game

import (
	"sync"
	"time"
)

type StepState int

const (
	StepIdle      StepState = iota // 没有待执行的步骤
	StepPending                    // 计时中
	StepFired                      // 已到期，等待 actor 消费
	StepCancelled                  // 被取消或被新的步骤替换
)

// Scheduler 单个驱动方的延迟步骤，任意时刻最多一个待执行
// 每次 Schedule/Cancel 都会推进 generation，旧的到期回调凭 generation 判断是否作废
type Scheduler struct {
	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	state      StepState
}

func NewScheduler() *Scheduler {
	return &Scheduler{state: StepIdle}
}

// Schedule 取消旧步骤后安排新步骤，delay <= 0 时立即异步触发
func (s *Scheduler) Schedule(delay time.Duration, fire func(generation uint64)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.generation++
	gen := s.generation
	s.state = StepPending
	if delay < 0 {
		delay = 0
	}
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.generation != gen {
			s.mu.Unlock()
			return
		}
		s.state = StepFired
		s.mu.Unlock()
		fire(gen)
	})
	return gen
}

// Cancel 作废待执行的步骤，没有时无副作用
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.generation++
	if s.state == StepPending || s.state == StepFired {
		s.state = StepCancelled
	}
}

// Consume actor 处理到期事件时调用，generation 过期返回 false
func (s *Scheduler) Consume(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation || s.state != StepFired {
		return false
	}
	s.state = StepIdle
	s.timer = nil
	return true
}

func (s *Scheduler) State() StepState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) Pending() bool {
	return s.State() == StepPending
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
