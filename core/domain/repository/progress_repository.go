package repository

import (
	"context"
	"time"
)

// Progress 批量评测运行中的进度快照
type Progress struct {
	RunID     string    `json:"runId"`
	Mode      string    `json:"mode"`
	Target    int       `json:"target"`
	Games     int       `json:"games"`
	Sets      int       `json:"sets"`
	Draws     int       `json:"draws"`
	Wins      [4]int    `json:"wins"`
	Rankings  [4][4]int `json:"rankings"`
	Scores    [4]int    `json:"scores"`
	Running   bool      `json:"running"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProgressStore 进度快照存储，评测结束后由 TTL 自动清理
type ProgressStore interface {
	SaveProgress(ctx context.Context, p *Progress, ttl time.Duration) error

	// GetProgress 不存在时返回 ErrProgressNotFound
	GetProgress(ctx context.Context, runID string) (*Progress, error)

	DeleteProgress(ctx context.Context, runID string) error
}
