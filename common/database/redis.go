package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hachijin-Okamoto/anyjara/common/config"
	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/redis/go-redis/v9"
)

var ErrRedisNotInitialized = errors.New("redis 客户端未初始化")

type RedisManager struct {
	Cli        *redis.Client
	ClusterCli *redis.ClusterClient
}

func NewRedis(redisConf config.RedisConf) (*RedisManager, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 构建Redis地址
	var addr string
	if redisConf.Addr != "" {
		addr = redisConf.Addr
	} else if redisConf.Host != "" && redisConf.Port > 0 {
		addr = fmt.Sprintf("%s:%d", redisConf.Host, redisConf.Port)
	} else if len(redisConf.ClusterAddrs) == 0 {
		return nil, fmt.Errorf("redis 配置出错: 缺少地址")
	}

	m := &RedisManager{}
	if len(redisConf.ClusterAddrs) == 0 {
		m.Cli = redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     redisConf.Password, // 如果没有密码，这个字段为空字符串，Redis会忽略
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
	} else {
		m.ClusterCli = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        redisConf.ClusterAddrs,
			Password:     redisConf.Password,
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
	}

	cli, _ := m.GetClient()
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("redis 连接错误: %w", err)
	}
	log.Info("redis 已连接")
	return m, nil
}

func (r *RedisManager) GetClient() (redis.Cmdable, error) {
	if r.Cli != nil {
		return r.Cli, nil
	}
	if r.ClusterCli != nil {
		return r.ClusterCli, nil
	}
	return nil, ErrRedisNotInitialized
}

func (r *RedisManager) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	cli, err := r.GetClient()
	if err != nil {
		return err
	}
	return cli.Set(ctx, key, value, expiration).Err()
}

// Get key 不存在时返回 redis.Nil
func (r *RedisManager) Get(ctx context.Context, key string) (string, error) {
	cli, err := r.GetClient()
	if err != nil {
		return "", err
	}
	return cli.Get(ctx, key).Result()
}

func (r *RedisManager) Del(ctx context.Context, keys ...string) error {
	cli, err := r.GetClient()
	if err != nil {
		return err
	}
	return cli.Del(ctx, keys...).Err()
}

func (r *RedisManager) Close() error {
	if r.Cli != nil {
		if err := r.Cli.Close(); err != nil {
			log.Error("redis 关闭出错: %v", err)
			return err
		}
	}
	if r.ClusterCli != nil {
		if err := r.ClusterCli.Close(); err != nil {
			log.Error("redisCluster 关闭出错: %v", err)
			return err
		}
	}
	return nil
}
