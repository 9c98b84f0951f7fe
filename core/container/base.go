package container

import (
	"errors"
	"fmt"

	"github.com/Hachijin-Okamoto/anyjara/common/config"
	"github.com/Hachijin-Okamoto/anyjara/common/database"
	"github.com/Hachijin-Okamoto/anyjara/common/log"
)

// BaseContainer 共享的数据库连接，未启用的后端为 nil
type BaseContainer struct {
	mongo *database.MongoManager
	redis *database.RedisManager
}

// NewBase 按配置连接数据库，任意一个已启用的后端连接失败都返回错误
func NewBase(conf config.DatabaseConf) (*BaseContainer, error) {
	c := &BaseContainer{}
	if conf.MongoConf.Enabled {
		mongo, err := database.NewMongo(conf.MongoConf)
		if err != nil {
			return nil, fmt.Errorf("mongodb 初始化失败: %w", err)
		}
		c.mongo = mongo
	}
	if conf.RedisConf.Enabled {
		redis, err := database.NewRedis(conf.RedisConf)
		if err != nil {
			_ = c.mongo.Close()
			return nil, fmt.Errorf("redis 初始化失败: %w", err)
		}
		c.redis = redis
	}
	log.Info("数据库初始化完成: mongo=%v, redis=%v", c.mongo != nil, c.redis != nil)
	return c, nil
}

// GetMongo 未启用时为 nil
func (c *BaseContainer) GetMongo() *database.MongoManager {
	return c.mongo
}

// GetRedis 未启用时为 nil
func (c *BaseContainer) GetRedis() *database.RedisManager {
	return c.redis
}

func (c *BaseContainer) Close() error {
	var errs []error
	if err := c.mongo.Close(); err != nil {
		log.Error("mongo 关闭失败: %v", err)
		errs = append(errs, err)
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
