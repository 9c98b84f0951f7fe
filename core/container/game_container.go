package container

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/cache"
	"github.com/Hachijin-Okamoto/anyjara/common/config"
	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/Hachijin-Okamoto/anyjara/common/utils"
	"github.com/Hachijin-Okamoto/anyjara/core/domain/repository"
	"github.com/Hachijin-Okamoto/anyjara/core/infrastructure/message/node"
	"github.com/Hachijin-Okamoto/anyjara/core/infrastructure/persistence"
	"github.com/Hachijin-Okamoto/anyjara/core/infrastructure/realtime"
	"github.com/Hachijin-Okamoto/anyjara/runtime/batch"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
)

const (
	progressPublishRate  = 2.0 // 每秒最多推送的进度事件
	progressPublishBurst = 5
	batchMonitorInterval = 10 * time.Second
)

// GameContainer 牌桌和批量评测共用的依赖
type GameContainer struct {
	*BaseContainer

	Conf      *config.SimConfiguration
	Cache     *cache.GeneralCache
	Searcher  *mahjong.Searcher
	Rules     *game.RuleBook
	Tables    *game.TableManager
	Harness   *batch.Harness
	Publisher *node.NatsWorker

	evaluations repository.EvaluationRepository
	progress    repository.ProgressStore
	memProgress *realtime.MemoryProgressStore

	closed bool
	mu     sync.Mutex
}

// NewGameContainer 按配置组装依赖，未启用的后端退化为内存实现或不接入
func NewGameContainer(conf *config.SimConfiguration) (*GameContainer, error) {
	base, err := NewBase(conf.DatabaseConf)
	if err != nil {
		return nil, err
	}
	c := &GameContainer{BaseContainer: base, Conf: conf}

	c.Cache, err = cache.NewGeneralCache(conf.CacheConf.MaxCost, time.Duration(conf.CacheConf.TTLSeconds)*time.Second)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Searcher = mahjong.NewSearcher(c.Cache)

	c.Rules, err = game.LoadRuleBook(conf.RuleConf.File, conf.RuleConf.Name, c.Searcher)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	if mongo := base.GetMongo(); mongo != nil {
		c.evaluations = persistence.NewEvaluationRepository(mongo)
	}
	if redis := base.GetRedis(); redis != nil {
		c.progress = realtime.NewRedisProgressStore(redis)
	} else {
		c.memProgress, err = realtime.NewMemoryProgressStore(conf.CacheConf.MaxCost)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.progress = c.memProgress
	}

	deps := batch.Deps{
		Searcher:        c.Searcher,
		Evaluations:     c.evaluations,
		Progress:        c.progress,
		ProgressTTL:     time.Duration(conf.DatabaseConf.RedisConf.TTLSeconds) * time.Second,
		Limiter:         utils.NewRateLimiter(progressPublishRate, progressPublishBurst),
		MonitorInterval: batchMonitorInterval,
	}
	if conf.NatsConfig.Enabled {
		worker := node.NewNatsWorker()
		if err := worker.Run(conf.NatsConfig.URL); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("nats 初始化失败: %w", err)
		}
		c.Publisher = worker
		deps.Publisher = worker
		deps.Subject = conf.NatsConfig.Subject
	}
	c.Harness = batch.NewHarness(deps)
	c.Tables = game.NewTableManager(c.Searcher)

	if conf.RuleConf.Watch && conf.RuleConf.File != "" {
		if err := c.Rules.Watch(conf.RuleConf.File, c.Tables.ChangeRule); err != nil {
			log.Warn("规则热更新未启用: %v", err)
		}
	}

	log.Info("GameContainer 初始化完成: rule=%s, evaluations=%v, nats=%v",
		c.Rules.Current().Name, c.evaluations != nil, c.Publisher != nil)
	return c, nil
}

// Evaluations 未启用 mongo 时为 nil
func (c *GameContainer) Evaluations() repository.EvaluationRepository {
	return c.evaluations
}

func (c *GameContainer) Progress() repository.ProgressStore {
	return c.progress
}

// Close 幂等；顺序：评测 -> 牌桌 -> 发布器 -> 缓存 -> 数据库
func (c *GameContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if c.Harness != nil {
		c.Harness.Stop()
	}
	if c.Tables != nil {
		c.Tables.CloseAll()
	}
	if c.Publisher != nil {
		c.Publisher.Close()
	}
	if c.memProgress != nil {
		c.memProgress.Close()
	}
	if c.Cache != nil {
		c.Cache.Close()
	}

	var errs []error
	if c.BaseContainer != nil {
		if err := c.BaseContainer.Close(); err != nil {
			log.Error("BaseContainer 关闭失败: %v", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("关闭资源时发生 %d 个错误: %w", len(errs), errors.Join(errs...))
	}
	log.Info("GameContainer 已关闭")
	return nil
}
