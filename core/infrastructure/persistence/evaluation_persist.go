package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hachijin-Okamoto/anyjara/common/database"
	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/Hachijin-Okamoto/anyjara/common/utils"
	"github.com/Hachijin-Okamoto/anyjara/core/domain/entity"
	"github.com/Hachijin-Okamoto/anyjara/core/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const evaluationCollection = "evaluations"

type EvaluationRepository struct {
	mongo *database.MongoManager
}

func NewEvaluationRepository(mongo *database.MongoManager) repository.EvaluationRepository {
	return &EvaluationRepository{mongo: mongo}
}

func (r *EvaluationRepository) Save(ctx context.Context, record *entity.EvaluationRecord) error {
	collection := r.mongo.Db.Collection(evaluationCollection)
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"run_id": record.RunID}, evaluationToDoc(record), opts); err != nil {
		log.Error("保存评测结果失败: runID=%s, err=%v", record.RunID, err)
		return fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return nil
}

func (r *EvaluationRepository) Find(ctx context.Context, runID string) (*entity.EvaluationRecord, error) {
	collection := r.mongo.Db.Collection(evaluationCollection)

	var doc bson.M
	err := collection.FindOne(ctx, bson.M{"run_id": runID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrEvaluationNotFound
		}
		log.Error("查询评测结果失败: %v", err)
		return nil, err
	}
	return docToEvaluation(doc), nil
}

func (r *EvaluationRepository) List(ctx context.Context, limit int) ([]*entity.EvaluationRecord, error) {
	collection := r.mongo.Db.Collection(evaluationCollection)

	opts := options.Find().SetSort(bson.M{"start_time": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Error("查询评测列表失败: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []*entity.EvaluationRecord
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		result = append(result, docToEvaluation(doc))
	}
	return result, cursor.Err()
}

func evaluationToDoc(record *entity.EvaluationRecord) bson.M {
	rankings := make([][]int, len(record.Rankings))
	for i := range record.Rankings {
		rankings[i] = record.Rankings[i][:]
	}
	return bson.M{
		"_id":        record.ID,
		"run_id":     record.RunID,
		"rule_name":  record.RuleName,
		"mode":       record.Mode,
		"strategies": record.Strategies,
		"target":     record.Target,
		"games":      record.Games,
		"sets":       record.Sets,
		"draws":      record.Draws,
		"wins":       record.Wins[:],
		"rankings":   rankings,
		"scores":     record.Scores[:],
		"start_time": record.StartTime,
		"end_time":   record.EndTime,
		"status":     record.Status,
	}
}

func docToEvaluation(doc bson.M) *entity.EvaluationRecord {
	record := &entity.EvaluationRecord{
		RunID:      utils.ToString(doc["run_id"]),
		RuleName:   utils.ToString(doc["rule_name"]),
		Mode:       utils.ToString(doc["mode"]),
		Strategies: utils.ToStringArray(doc["strategies"]),
		Target:     utils.ToInt(doc["target"]),
		Games:      utils.ToInt(doc["games"]),
		Sets:       utils.ToInt(doc["sets"]),
		Draws:      utils.ToInt(doc["draws"]),
		Wins:       utils.ToIntArray(doc["wins"]),
		Rankings:   utils.ToIntMatrix(doc["rankings"]),
		Scores:     utils.ToIntArray(doc["scores"]),
		StartTime:  utils.ToTime(doc["start_time"]),
		EndTime:    utils.ToTime(doc["end_time"]),
		Status:     utils.ToString(doc["status"]),
	}
	record.ID, _ = doc["_id"].(primitive.ObjectID)
	return record
}
