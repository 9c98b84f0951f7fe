package repository

import (
	"context"

	"github.com/Hachijin-Okamoto/anyjara/core/domain/entity"
)

// EvaluationRepository 批量评测结果仓储
type EvaluationRepository interface {
	// Save 按 RunID 覆盖写入
	Save(ctx context.Context, record *entity.EvaluationRecord) error

	// Find 不存在时返回 ErrEvaluationNotFound
	Find(ctx context.Context, runID string) (*entity.EvaluationRecord, error)

	// List 最近的评测，按开始时间倒序
	List(ctx context.Context, limit int) ([]*entity.EvaluationRecord, error)
}
