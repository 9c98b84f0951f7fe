package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EvaluationModeGames = "games"
	EvaluationModeSets  = "sets"

	EvaluationStatusCompleted = "completed"
	EvaluationStatusCancelled = "cancelled"
)

// EvaluationRecord 一次批量评测的汇总结果
type EvaluationRecord struct {
	ID         primitive.ObjectID `bson:"_id"`
	RunID      string             `bson:"run_id"`
	RuleName   string             `bson:"rule_name"`
	Mode       string             `bson:"mode"`
	Strategies []string           `bson:"strategies"` // 按座位
	Target     int                `bson:"target"`
	Games      int                `bson:"games"` // 已完成局数
	Sets       int                `bson:"sets"`  // 已完成盘数
	Draws      int                `bson:"draws"` // 流局数
	Wins       [4]int             `bson:"wins"`
	Rankings   [4][4]int          `bson:"rankings"` // [座位][名次]
	Scores     [4]int             `bson:"scores"`   // 累计得失分
	StartTime  time.Time          `bson:"start_time"`
	EndTime    time.Time          `bson:"end_time"`
	Status     string             `bson:"status"`
}

func NewEvaluationRecord(runID, ruleName, mode string, strategies []string, target int) *EvaluationRecord {
	return &EvaluationRecord{
		ID:         primitive.NewObjectID(),
		RunID:      runID,
		RuleName:   ruleName,
		Mode:       mode,
		Strategies: append([]string(nil), strategies...),
		Target:     target,
		StartTime:  time.Now(),
	}
}

// Finish status 为 completed 或 cancelled
func (er *EvaluationRecord) Finish(status string) {
	er.EndTime = time.Now()
	er.Status = status
}
