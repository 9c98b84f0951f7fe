package batch

import (
	"time"

	"github.com/Hachijin-Okamoto/anyjara/core/domain/entity"
	"github.com/Hachijin-Okamoto/anyjara/core/domain/repository"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
)

const (
	ModeGames = entity.EvaluationModeGames
	ModeSets  = entity.EvaluationModeSets
)

// Session 一次批量评测的累计结果，只由运行它的 goroutine 修改，对外发布副本
type Session struct {
	RunID      string                                    `json:"runId"`
	RuleName   string                                    `json:"ruleName"`
	Mode       string                                    `json:"mode"`
	Target     int                                       `json:"target"`
	Strategies [mahjong.SeatCount]string                 `json:"strategies"`
	Games      int                                       `json:"games"`
	Sets       int                                       `json:"sets"`
	Draws      int                                       `json:"draws"`
	Wins       [mahjong.SeatCount]int                    `json:"wins"`
	Rankings   [mahjong.SeatCount][mahjong.SeatCount]int `json:"rankings"` // [座位][名次]
	Scores     [mahjong.SeatCount]int                    `json:"scores"`   // 累计得失分
	Running    bool                                      `json:"running"`
	StartedAt  time.Time                                 `json:"startedAt"`
	UpdatedAt  time.Time                                 `json:"updatedAt"`
}

func newSession(runID string, opts Options) *Session {
	now := time.Now()
	return &Session{
		RunID:      runID,
		RuleName:   opts.Rule.Name,
		Mode:       opts.Mode,
		Target:     opts.Target,
		Strategies: opts.Strategies,
		Running:    true,
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

// recordHand 一局结束：和牌计胜场，流局计流局数，得失分累加
func (s *Session) recordHand(st *mahjong.GameState) {
	s.Games++
	switch {
	case st.Win != nil:
		s.Wins[st.Win.Winner]++
		for seat, d := range st.Win.Deltas {
			s.Scores[seat] += d
		}
	case st.Draw != nil:
		s.Draws++
	}
	s.UpdatedAt = time.Now()
}

// recordSet 一盘结束，按最终分数记名次
func (s *Session) recordSet(st *mahjong.GameState) {
	s.Sets++
	for rank, seat := range mahjong.Ranking(st.Scores, st.SetDealer) {
		s.Rankings[seat][rank]++
	}
	s.UpdatedAt = time.Now()
}

// Done games 模式按局数、sets 模式按盘数判断是否达到目标
func (s *Session) Done() bool {
	if s.Mode == ModeSets {
		return s.Sets >= s.Target
	}
	return s.Games >= s.Target
}

func (s *Session) clone() *Session {
	c := *s
	return &c
}

// Progress 转成进度快照
func (s *Session) Progress() *repository.Progress {
	return &repository.Progress{
		RunID:     s.RunID,
		Mode:      s.Mode,
		Target:    s.Target,
		Games:     s.Games,
		Sets:      s.Sets,
		Draws:     s.Draws,
		Wins:      s.Wins,
		Rankings:  s.Rankings,
		Scores:    s.Scores,
		Running:   s.Running,
		UpdatedAt: s.UpdatedAt,
	}
}

// Record 转成评测结果，status 为 completed 或 cancelled
func (s *Session) Record(status string) *entity.EvaluationRecord {
	record := entity.NewEvaluationRecord(s.RunID, s.RuleName, s.Mode, s.Strategies[:], s.Target)
	record.StartTime = s.StartedAt
	record.Games = s.Games
	record.Sets = s.Sets
	record.Draws = s.Draws
	record.Wins = s.Wins
	record.Rankings = s.Rankings
	record.Scores = s.Scores
	record.Finish(status)
	return record
}
