package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/Hachijin-Okamoto/anyjara/common/utils"
	"github.com/Hachijin-Okamoto/anyjara/core/domain/entity"
	"github.com/Hachijin-Okamoto/anyjara/core/domain/repository"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
	"github.com/google/uuid"
)

var (
	ErrHarnessRunning = errors.New("batch run already in progress")
	ErrHeadlessHuman  = errors.New("batch run cannot seat a human player")
	ErrInvalidOptions = errors.New("invalid batch options")
	ErrNoRun          = errors.New("no batch run started")
)

const (
	defaultReportEvery = 50
	defaultProgressTTL = time.Hour
	storeTimeout       = 10 * time.Second
	// 每局的步数上限，防止规则配置异常时死循环
	maxStepsPerHand = 100000
)

// Options 一次评测的参数
type Options struct {
	Rule        *mahjong.Rule
	Mode        string
	Target      int
	Strategies  [mahjong.SeatCount]string
	Seed        int64
	StepDelay   time.Duration // 每步之间的延迟，0 为不等待
	ReportEvery int           // 每隔多少局推送一次进度
	AutoReach   bool
}

// Publisher 进度事件推送，NatsWorker 满足该接口
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Deps 评测依赖，均可为空
type Deps struct {
	Searcher        *mahjong.Searcher
	Evaluations     repository.EvaluationRepository
	Progress        repository.ProgressStore
	ProgressTTL     time.Duration
	Publisher       Publisher
	Subject         string
	Limiter         *utils.RateLimiter
	MonitorInterval time.Duration
}

// Event 推送给订阅方的进度事件
type Event struct {
	Type     string               `json:"type"` // progress | finished
	Status   string               `json:"status,omitempty"`
	Progress *repository.Progress `json:"progress"`
}

// Harness 批量评测驱动，同一时刻只允许一个评测在跑
type Harness struct {
	deps Deps

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	result *entity.EvaluationRecord
	runErr error

	snapshot atomic.Pointer[Session]
}

func NewHarness(deps Deps) *Harness {
	if deps.ProgressTTL <= 0 {
		deps.ProgressTTL = defaultProgressTTL
	}
	return &Harness{deps: deps}
}

func (h *Harness) normalize(opts Options) (Options, error) {
	if opts.Rule == nil {
		opts.Rule = mahjong.DefaultRule()
	}
	switch opts.Mode {
	case "":
		opts.Mode = ModeGames
	case ModeGames, ModeSets:
	default:
		return opts, fmt.Errorf("%w: mode %q", ErrInvalidOptions, opts.Mode)
	}
	if opts.Target <= 0 {
		return opts, fmt.Errorf("%w: target must be positive", ErrInvalidOptions)
	}
	if opts.ReportEvery <= 0 {
		opts.ReportEvery = defaultReportEvery
	}
	if opts.StepDelay < 0 {
		opts.StepDelay = 0
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	for seat, id := range opts.Strategies {
		if id == mahjong.StrategyHuman {
			return opts, fmt.Errorf("%w: seat %d", ErrHeadlessHuman, seat)
		}
	}
	return opts, nil
}

// Start 开始一次评测，返回 runID；ctx 取消等同 Stop
func (h *Harness) Start(ctx context.Context, opts Options) (string, error) {
	opts, err := h.normalize(opts)
	if err != nil {
		return "", err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	var seats mahjong.Seats
	for seat, id := range opts.Strategies {
		st, err := mahjong.NewStrategy(id, rng, h.deps.Searcher)
		if err != nil {
			return "", fmt.Errorf("seat %d: %w", seat, err)
		}
		seats[seat] = st
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done != nil {
		select {
		case <-h.done:
		default:
			return "", ErrHarnessRunning
		}
	}

	runID := uuid.NewString()
	session := newSession(runID, opts)
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	h.cancel = cancel
	h.done = done
	h.result = nil
	h.runErr = nil
	h.snapshot.Store(session.clone())

	r := &run{
		harness: h,
		opts:    opts,
		session: session,
		seats:   seats,
		tm:      mahjong.NewTurnManager(rng, h.deps.Searcher),
	}
	go func() {
		defer close(done)
		defer cancel()
		record, err := r.loop(runCtx)
		h.mu.Lock()
		h.result = record
		h.runErr = err
		h.mu.Unlock()
	}()

	log.Info("批量评测开始: runID=%s, rule=%s, mode=%s, target=%d, strategies=%v",
		runID, opts.Rule.Name, opts.Mode, opts.Target, opts.Strategies)
	return runID, nil
}

// Stop 取消当前评测并等待收尾，没有评测时直接返回
func (h *Harness) Stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait 等待当前评测结束，返回最终结果
func (h *Harness) Wait(ctx context.Context) (*entity.EvaluationRecord, error) {
	h.mu.Lock()
	done := h.done
	h.mu.Unlock()
	if done == nil {
		return nil, ErrNoRun
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result, h.runErr
}

// Running 是否有评测在跑
func (h *Harness) Running() bool {
	h.mu.Lock()
	done := h.done
	h.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Snapshot 最近一次提交的累计结果副本
func (h *Harness) Snapshot() (Session, bool) {
	s := h.snapshot.Load()
	if s == nil {
		return Session{}, false
	}
	return *s, true
}

// run 一次评测的运行状态，只在评测 goroutine 中访问
type run struct {
	harness *Harness
	opts    Options
	session *Session
	seats   mahjong.Seats
	tm      *mahjong.TurnManager
	state   *mahjong.GameState
}

func (r *run) loop(ctx context.Context) (*entity.EvaluationRecord, error) {
	h := r.harness
	if h.deps.MonitorInterval > 0 {
		monitor := game.NewMonitor(func() (int, int) {
			s, _ := h.Snapshot()
			return 1, s.Games
		}, h.deps.MonitorInterval)
		go monitor.Start(ctx)
		defer monitor.Stop()
	}

	r.state = mahjong.NewGameState(r.opts.Rule)
	status := entity.EvaluationStatusCompleted
	var runErr error

	steps := 0
	for !r.session.Done() {
		if err := r.wait(ctx); err != nil {
			status = entity.EvaluationStatusCancelled
			break
		}
		if err := r.step(); err != nil {
			runErr = err
			status = entity.EvaluationStatusCancelled
			break
		}
		steps++
		if r.state.Ended() || r.state.Phase == mahjong.PhaseIdle {
			steps = 0
		} else if steps > maxStepsPerHand {
			runErr = fmt.Errorf("hand %d did not finish within %d steps", r.state.HandNumber, maxStepsPerHand)
			status = entity.EvaluationStatusCancelled
			break
		}
	}

	r.session.Running = false
	r.session.UpdatedAt = time.Now()
	h.snapshot.Store(r.session.clone())
	record := r.session.Record(status)
	r.finish(record)

	log.Info("批量评测结束: runID=%s, status=%s, games=%d, sets=%d, draws=%d, wins=%v, rankings=%v",
		record.RunID, record.Status, record.Games, record.Sets, record.Draws, record.Wins, record.Rankings)
	return record, runErr
}

// wait 延迟推进，ctx 取消时立即返回
func (r *run) wait(ctx context.Context) error {
	if r.opts.StepDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.opts.StepDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// step 基于最新状态推进一步，一局或一盘结束时累计结果
func (r *run) step() error {
	prev := r.state
	var action mahjong.Action
	if prev.Phase == mahjong.PhaseIdle || prev.Ended() {
		action = mahjong.StartGame()
	} else {
		a, ok := mahjong.NextAction(prev, r.seats, r.harness.deps.Searcher, r.opts.AutoReach)
		if !ok {
			return fmt.Errorf("seat %d has no action in phase %s", prev.Turn, prev.Phase)
		}
		action = a
	}

	next := r.tm.Apply(prev, action)
	if next == prev {
		return fmt.Errorf("action %s rejected in phase %s", action.Type, prev.Phase)
	}
	r.state = next
	if !next.Ended() {
		return nil
	}

	r.session.recordHand(next)
	if next.SetOver {
		r.session.recordSet(next)
	}
	r.harness.snapshot.Store(r.session.clone())
	if r.session.Games%r.opts.ReportEvery == 0 {
		r.report("progress", "")
	}
	return nil
}

func (r *run) report(eventType, status string) {
	h := r.harness
	progress := r.session.Progress()

	if h.deps.Progress != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		if err := h.deps.Progress.SaveProgress(ctx, progress, h.deps.ProgressTTL); err != nil {
			log.Warn("保存评测进度失败: runID=%s, err=%v", progress.RunID, err)
		}
		cancel()
	}
	log.Info("批量评测进度: runID=%s, games=%d/%d, sets=%d, wins=%v",
		progress.RunID, progress.Games, progress.Target, progress.Sets, progress.Wins)

	if h.deps.Publisher == nil || h.deps.Subject == "" {
		return
	}
	// 结束事件不限流
	if eventType == "progress" && !h.deps.Limiter.Allow() {
		return
	}
	data, err := json.Marshal(&Event{Type: eventType, Status: status, Progress: progress})
	if err != nil {
		log.Error("序列化评测进度失败: %v", err)
		return
	}
	if err := h.deps.Publisher.Publish(h.deps.Subject, data); err != nil {
		log.Warn("推送评测进度失败: subject=%s, err=%v", h.deps.Subject, err)
	}
}

func (r *run) finish(record *entity.EvaluationRecord) {
	r.report("finished", record.Status)
	h := r.harness
	if h.deps.Evaluations == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := h.deps.Evaluations.Save(ctx, record); err != nil {
		log.Error("保存评测结果失败: runID=%s, err=%v", record.RunID, err)
	}
}
