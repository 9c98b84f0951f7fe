package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
)

const eventQueueSize = 256

var ErrTableClosed = errors.New("table closed")

// Listener 每次状态提交后收到观察座位视角的 View，在 actor goroutine 中同步调用
type Listener func(v mahjong.View)

// TableOptions 牌桌参数，HumanSeat = NoSeat 时四家全部托管
type TableOptions struct {
	ID           string
	Rule         *mahjong.Rule
	Strategies   [mahjong.SeatCount]string
	HumanSeat    int
	DrawDelay    time.Duration
	DiscardDelay time.Duration
	AutoReach    bool
	Seed         int64
	Searcher     *mahjong.Searcher
}

// Table 交互牌桌
// 对局状态只由 actor goroutine 写入，外部命令和延迟步骤都作为事件入队串行处理
type Table struct {
	ID string

	opts      TableOptions
	tm        *mahjong.TurnManager
	seats     mahjong.Seats
	searcher  *mahjong.Searcher
	scheduler *Scheduler
	viewer    int

	state       atomic.Pointer[mahjong.GameState]
	pendingRule *mahjong.Rule
	hands       atomic.Int64

	listenerMu sync.RWMutex
	listeners  []Listener

	events    chan TableEvent
	done      chan struct{}
	actorExit chan struct{}
	closed    atomic.Bool
	started   atomic.Bool
	closeOnce sync.Once
}

// NewTable 校验座位策略并创建牌桌，Start 之后才开始处理事件
func NewTable(opts TableOptions) (*Table, error) {
	if opts.Rule == nil {
		opts.Rule = mahjong.DefaultRule()
	}
	if opts.HumanSeat < mahjong.NoSeat || opts.HumanSeat >= mahjong.SeatCount {
		return nil, fmt.Errorf("非法的人工座位: %d", opts.HumanSeat)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	var seats mahjong.Seats
	for seat, id := range opts.Strategies {
		if seat == opts.HumanSeat {
			id = mahjong.StrategyHuman
			opts.Strategies[seat] = id
		}
		st, err := mahjong.NewStrategy(id, rng, opts.Searcher)
		if err != nil {
			return nil, fmt.Errorf("座位 %d: %w", seat, err)
		}
		seats[seat] = st
	}

	viewer := opts.HumanSeat
	if viewer == mahjong.NoSeat {
		viewer = 0
	}

	t := &Table{
		ID:        opts.ID,
		opts:      opts,
		tm:        mahjong.NewTurnManager(rng, opts.Searcher),
		seats:     seats,
		searcher:  opts.Searcher,
		scheduler: NewScheduler(),
		viewer:    viewer,
		events:    make(chan TableEvent, eventQueueSize),
		done:      make(chan struct{}),
		actorExit: make(chan struct{}),
	}
	t.state.Store(mahjong.NewGameState(opts.Rule))
	return t, nil
}

// Start 启动 actor，重复调用无效
func (t *Table) Start() {
	if !t.started.CompareAndSwap(false, true) {
		return
	}
	go t.actorLoop()
}

func (t *Table) actorLoop() {
	defer close(t.actorExit)
	for {
		select {
		case <-t.done:
			return
		case event := <-t.events:
			t.processEvent(event)
		}
	}
}

// NotifyEvent 入队，不阻塞调用方
func (t *Table) NotifyEvent(event TableEvent) {
	if event == nil || t.closed.Load() {
		return
	}
	select {
	case <-t.done:
	case t.events <- event:
	default:
		log.Warn("牌桌 %s 事件队列已满, eventType=%s", t.ID, event.GetEventType())
	}
}

func (t *Table) processEvent(event TableEvent) {
	switch e := event.(type) {
	case *StartHandEvent:
		rule := e.Rule
		if rule == nil {
			rule = t.pendingRule
		}
		if t.commit(mahjong.StartGameWithRule(rule)) && rule != nil {
			t.pendingRule = nil
		}
	case *DiscardEvent:
		if e.Seat != t.opts.HumanSeat {
			log.Debug("牌桌 %s 忽略非人工座位的出牌: seat=%d", t.ID, e.Seat)
			return
		}
		t.commit(mahjong.Discard(e.Seat, e.TileID))
	case *DeclareReachEvent:
		if e.Seat != t.opts.HumanSeat {
			log.Debug("牌桌 %s 忽略非人工座位的立直: seat=%d", t.ID, e.Seat)
			return
		}
		t.commit(mahjong.DeclareReach(e.Seat))
	case *ChangeRuleEvent:
		t.pendingRule = e.Rule
		log.Info("牌桌 %s 规则将在下一局切换为 %s", t.ID, e.Rule.Name)
	case *stepEvent:
		if !t.scheduler.Consume(e.Generation) {
			return
		}
		action, ok := mahjong.NextAction(t.State(), t.seats, t.searcher, t.opts.AutoReach)
		if !ok {
			return
		}
		t.commit(action)
	default:
		log.Warn("牌桌 %s 未知事件: %s", t.ID, event.GetEventType())
	}
}

// commit 基于最新状态执行一次转移，未生效返回 false
func (t *Table) commit(a mahjong.Action) bool {
	prev := t.State()
	next := t.tm.Apply(prev, a)
	if next == prev {
		return false
	}
	// 新状态提交后，旧状态上安排的步骤全部作废
	t.scheduler.Cancel()
	t.state.Store(next)

	if next.Ended() && !prev.Ended() {
		t.hands.Add(1)
		t.logHandEnd(next)
	}
	t.broadcast(next)
	t.scheduleNext(next)
	return true
}

func (t *Table) logHandEnd(s *mahjong.GameState) {
	switch {
	case s.Win != nil:
		log.Info("牌桌 %s 第 %d 盘第 %d 局结束: P%d %s %s %d 点, 分数 %v",
			t.ID, s.SetNumber, s.HandNumber, s.Win.Winner, s.Win.Kind, s.Win.Yaku.Name, s.Win.Points, s.Scores)
	case s.Draw != nil:
		log.Info("牌桌 %s 第 %d 盘第 %d 局流局, 分数 %v", t.ID, s.SetNumber, s.HandNumber, s.Scores)
	}
	if s.SetOver {
		log.Info("牌桌 %s 第 %d 盘结束, 名次 %v", t.ID, s.SetNumber, mahjong.Ranking(s.Scores, s.SetDealer))
	}
}

// scheduleNext 摸牌和托管座位的出牌延迟执行，轮到人工座位或一局结束时等待命令
func (t *Table) scheduleNext(s *mahjong.GameState) {
	action, ok := mahjong.NextAction(s, t.seats, t.searcher, t.opts.AutoReach)
	if !ok {
		return
	}
	delay := t.opts.DiscardDelay
	if action.Type == mahjong.ActionDraw {
		delay = t.opts.DrawDelay
	}
	t.scheduler.Schedule(delay, func(gen uint64) {
		t.notifyStep(gen)
	})
}

// notifyStep 到期步骤必须送达，队列满时在计时器 goroutine 里等待，牌桌关闭时放弃
func (t *Table) notifyStep(gen uint64) {
	if t.closed.Load() {
		return
	}
	select {
	case <-t.done:
	case t.events <- &stepEvent{Generation: gen}:
	}
}

func (t *Table) broadcast(s *mahjong.GameState) {
	t.listenerMu.RLock()
	listeners := t.listeners
	t.listenerMu.RUnlock()
	if len(listeners) == 0 {
		return
	}
	v := mahjong.BuildView(s, t.viewer, t.searcher)
	for _, l := range listeners {
		l(v)
	}
}

// Subscribe 注册监听，立即推送一次当前视图
func (t *Table) Subscribe(l Listener) {
	if l == nil {
		return
	}
	t.listenerMu.Lock()
	t.listeners = append(t.listeners[:len(t.listeners):len(t.listeners)], l)
	t.listenerMu.Unlock()
	l(t.View())
}

// StartHand 开始下一局
func (t *Table) StartHand() error {
	return t.send(&StartHandEvent{})
}

// Discard 人工座位出牌，非法的牌由状态机忽略
func (t *Table) Discard(tileID string) error {
	return t.send(&DiscardEvent{Seat: t.opts.HumanSeat, TileID: tileID})
}

func (t *Table) DeclareReach() error {
	return t.send(&DeclareReachEvent{Seat: t.opts.HumanSeat})
}

// ChangeRule 下一局开局时换用新规则
func (t *Table) ChangeRule(rule *mahjong.Rule) error {
	if rule == nil {
		return nil
	}
	return t.send(&ChangeRuleEvent{Rule: rule})
}

func (t *Table) send(e TableEvent) error {
	if t.closed.Load() {
		return ErrTableClosed
	}
	t.NotifyEvent(e)
	return nil
}

// State 最近一次提交的状态，只读
func (t *Table) State() *mahjong.GameState {
	return t.state.Load()
}

func (t *Table) View() mahjong.View {
	return mahjong.BuildView(t.State(), t.viewer, t.searcher)
}

func (t *Table) HumanSeat() int {
	return t.opts.HumanSeat
}

func (t *Table) Strategies() [mahjong.SeatCount]string {
	return t.opts.Strategies
}

// HandsPlayed 已结束的局数
func (t *Table) HandsPlayed() int {
	return int(t.hands.Load())
}

// Close 停止 actor 并取消待执行的步骤
func (t *Table) Close() {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		close(t.done)
		if t.started.Load() {
			<-t.actorExit
		}
		t.scheduler.Cancel()
		log.Info("牌桌 %s 已关闭", t.ID)
	})
}
