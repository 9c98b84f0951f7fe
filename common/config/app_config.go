package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var Conf *SimConfiguration

type SimConfiguration struct {
	ID           string       `mapstructure:"id"`
	MetricPort   int          `mapstructure:"metricPort"`
	LogConf      LogConf      `mapstructure:"log"`
	RuleConf     RuleConf     `mapstructure:"rule"`
	TableConf    TableConf    `mapstructure:"table"`
	BatchConf    BatchConf    `mapstructure:"batch"`
	CacheConf    CacheConf    `mapstructure:"cache"`
	DatabaseConf DatabaseConf `mapstructure:"database"`
	NatsConfig   NatsConfig   `mapstructure:"nats"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

// RuleConf 规则文件位置，Name 为空时使用文件里的第一套规则
type RuleConf struct {
	File  string `mapstructure:"file"`
	Name  string `mapstructure:"name"`
	Watch bool   `mapstructure:"watch"`
}

// TableConf 交互牌桌，HumanSeat = -1 表示四家全部托管
type TableConf struct {
	DrawDelayMs    int      `mapstructure:"drawDelayMs"`
	DiscardDelayMs int      `mapstructure:"discardDelayMs"`
	HumanSeat      int      `mapstructure:"humanSeat"`
	Strategies     []string `mapstructure:"strategies"`
	Seed           int64    `mapstructure:"seed"`
	AutoReach      bool     `mapstructure:"autoReach"`
}

type BatchConf struct {
	Target      int      `mapstructure:"target"`
	Mode        string   `mapstructure:"mode"` // games | sets
	StepDelayMs int      `mapstructure:"stepDelayMs"`
	ReportEvery int      `mapstructure:"reportEvery"`
	Seed        int64    `mapstructure:"seed"`
	Strategies  []string `mapstructure:"strategies"`
	AutoReach   bool     `mapstructure:"autoReach"`
}

type CacheConf struct {
	MaxCost    int64 `mapstructure:"maxCost"`
	TTLSeconds int   `mapstructure:"ttlSeconds"`
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Enabled     bool   `mapstructure:"enabled"`
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type RedisConf struct {
	Enabled      bool     `mapstructure:"enabled"`
	Addr         string   `mapstructure:"addr"`
	ClusterAddrs []string `mapstructure:"clusterAddrs"`
	Password     string   `mapstructure:"password"`
	PoolSize     int      `mapstructure:"poolSize"`
	MinIdleConns int      `mapstructure:"minIdleConns"`
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	TTLSeconds   int      `mapstructure:"ttlSeconds"`
}

type NatsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `json:"url" mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// Default 没有配置文件时的完整配置
func Default() *SimConfiguration {
	cfg := &SimConfiguration{
		TableConf: TableConf{HumanSeat: 0, AutoReach: true},
		BatchConf: BatchConf{AutoReach: true},
	}
	cfg.Inherit()
	return cfg
}

// Inherit 补全缺省值
func (c *SimConfiguration) Inherit() {
	if c.ID == "" {
		c.ID = "anyjara"
	}
	if c.LogConf.Level == "" {
		c.LogConf.Level = "info"
	}
	if c.TableConf.DrawDelayMs < 0 {
		c.TableConf.DrawDelayMs = 0
	}
	if c.TableConf.DiscardDelayMs < 0 {
		c.TableConf.DiscardDelayMs = 0
	}
	if c.TableConf.HumanSeat < -1 || c.TableConf.HumanSeat > 3 {
		c.TableConf.HumanSeat = -1
	}
	c.TableConf.Strategies = fillStrategies(c.TableConf.Strategies)
	if c.BatchConf.Target <= 0 {
		c.BatchConf.Target = 100
	}
	if c.BatchConf.Mode != "sets" {
		c.BatchConf.Mode = "games"
	}
	if c.BatchConf.StepDelayMs < 0 {
		c.BatchConf.StepDelayMs = 0
	}
	if c.BatchConf.ReportEvery <= 0 {
		c.BatchConf.ReportEvery = 50
	}
	c.BatchConf.Strategies = fillStrategies(c.BatchConf.Strategies)
	if c.CacheConf.MaxCost <= 0 {
		c.CacheConf.MaxCost = 1 << 16
	}
	if c.CacheConf.TTLSeconds <= 0 {
		c.CacheConf.TTLSeconds = 600
	}
	if c.DatabaseConf.MongoConf.Db == "" {
		c.DatabaseConf.MongoConf.Db = "anyjara"
	}
	if c.DatabaseConf.RedisConf.TTLSeconds <= 0 {
		c.DatabaseConf.RedisConf.TTLSeconds = 3600
	}
	if c.NatsConfig.Subject == "" {
		c.NatsConfig.Subject = "anyjara.batch"
	}
}

// fillStrategies 不足四家的座位用 yaku-progress 补齐
func fillStrategies(in []string) []string {
	out := make([]string, 4)
	for i := range out {
		if i < len(in) && strings.TrimSpace(in[i]) != "" {
			out[i] = strings.TrimSpace(in[i])
		} else {
			out[i] = "yaku-progress"
		}
	}
	return out
}

func Load(configFile string) (*SimConfiguration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("table.humanSeat", 0)
	v.SetDefault("table.autoReach", true)
	v.SetDefault("batch.autoReach", true)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件出错: %w", err)
	}

	var cfg SimConfiguration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件出错: %w", err)
	}
	cfg.Inherit()
	return &cfg, nil
}

// InitConfig 加载到全局 Conf，文件缺失时退回 Default
func InitConfig(configFile string) error {
	if configFile == "" {
		Conf = Default()
		return nil
	}
	cfg, err := Load(configFile)
	if err != nil {
		return err
	}
	Conf = cfg
	return nil
}
