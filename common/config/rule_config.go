package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RuleFile 规则文件顶层结构
type RuleFile struct {
	Rules []RuleEntry `json:"rules" mapstructure:"rules"`
}

// RuleEntry 兼容两种写法：直接写规则字段，或者 {name, body}
type RuleEntry struct {
	RuleDefinition `mapstructure:",squash"`
	Body           *RuleDefinition `json:"body" mapstructure:"body"`
}

// RuleDefinition 未经校验的规则，缺失的字段由引擎补默认值
type RuleDefinition struct {
	Name         string           `json:"name" mapstructure:"name"`
	HandSize     *int             `json:"handSize" mapstructure:"handSize"`
	WinHandSize  *int             `json:"winHandSize" mapstructure:"winHandSize"`
	InitialScore *int             `json:"initialScore" mapstructure:"initialScore"`
	SetCycles    *int             `json:"setCycles" mapstructure:"setCycles"`
	Tiles        []TileDefinition `json:"tiles" mapstructure:"tiles"`
	Yakus        []YakuDefinition `json:"yakus" mapstructure:"yakus"`
}

type TileDefinition struct {
	ID        string `json:"id" mapstructure:"id"`
	Label     string `json:"label" mapstructure:"label"`
	ColorID   string `json:"colorId" mapstructure:"colorId"`
	ColorCode string `json:"colorCode" mapstructure:"colorCode"`
	Copies    int    `json:"copies" mapstructure:"copies"`
}

type YakuDefinition struct {
	ID       string                  `json:"id" mapstructure:"id"`
	Name     string                  `json:"name" mapstructure:"name"`
	Point    int                     `json:"point" mapstructure:"point"`
	Required []RequirementDefinition `json:"required" mapstructure:"required"`
}

type RequirementDefinition struct {
	Name  string `json:"name" mapstructure:"name"`
	Color string `json:"color" mapstructure:"color"`
	Count int    `json:"count" mapstructure:"count"`
}

// Definitions 展开 body 包装，body 里没写 name 时沿用外层
func (f *RuleFile) Definitions() []RuleDefinition {
	out := make([]RuleDefinition, 0, len(f.Rules))
	for _, e := range f.Rules {
		if e.Body == nil {
			out = append(out, e.RuleDefinition)
			continue
		}
		def := *e.Body
		if def.Name == "" {
			def.Name = e.Name
		}
		out = append(out, def)
	}
	return out
}

// LoadRuleFile 读取 yaml/json 规则文件；json 允许顶层直接是数组
func LoadRuleFile(path string) ([]RuleDefinition, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取规则文件失败: %w", err)
		}
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
			var entries []RuleEntry
			if err := json.Unmarshal(trimmed, &entries); err != nil {
				return nil, fmt.Errorf("解析规则数组失败: %w", err)
			}
			f := RuleFile{Rules: entries}
			return f.Definitions(), nil
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取规则文件失败: %w", err)
	}
	return decodeRules(v)
}

func decodeRules(v *viper.Viper) ([]RuleDefinition, error) {
	var f RuleFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("解析规则文件失败: %w", err)
	}
	return f.Definitions(), nil
}

// WatchRuleFile 规则文件变化时回调，解析失败保留旧规则
func WatchRuleFile(path string, onChange func([]RuleDefinition)) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("初始化规则文件监听失败: %w", err)
	}
	v.OnConfigChange(func(in fsnotify.Event) {
		if !in.Has(fsnotify.Write) && !in.Has(fsnotify.Create) {
			return
		}
		defs, err := LoadRuleFile(path)
		if err != nil {
			log.Warn("重新加载规则失败: %v", err)
			return
		}
		log.Info("规则文件已更新: %s, 共 %d 套规则", in.Name, len(defs))
		onChange(defs)
	})
	v.WatchConfig()
	return nil
}
