package game

import (
	"sync"

	"github.com/Hachijin-Okamoto/anyjara/common/config"
	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
)

// RuleBook 已加载的规则集合，支持文件热更新
type RuleBook struct {
	mu       sync.RWMutex
	rules    []*mahjong.Rule
	selected string
	searcher *mahjong.Searcher
}

// NewRuleBook selected 为空时选第一套
func NewRuleBook(defs []config.RuleDefinition, selected string, searcher *mahjong.Searcher) *RuleBook {
	return &RuleBook{
		rules:    mahjong.NormalizeRules(defs),
		selected: selected,
		searcher: searcher,
	}
}

// LoadRuleBook path 为空时只有默认规则
func LoadRuleBook(path, selected string, searcher *mahjong.Searcher) (*RuleBook, error) {
	if path == "" {
		return NewRuleBook(nil, selected, searcher), nil
	}
	defs, err := config.LoadRuleFile(path)
	if err != nil {
		return nil, err
	}
	return NewRuleBook(defs, selected, searcher), nil
}

func (rb *RuleBook) Rules() []*mahjong.Rule {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return append([]*mahjong.Rule(nil), rb.rules...)
}

// Current 选中的规则，找不到时回退到第一套
func (rb *RuleBook) Current() *mahjong.Rule {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	rule := mahjong.FindRule(rb.rules, rb.selected)
	if rb.selected != "" && rule.Name != rb.selected {
		log.Warn("规则 %s 不存在，使用 %s", rb.selected, rule.Name)
	}
	return rule
}

// Replace 替换全部规则并清空听牌缓存
func (rb *RuleBook) Replace(defs []config.RuleDefinition) *mahjong.Rule {
	rules := mahjong.NormalizeRules(defs)
	rb.mu.Lock()
	rb.rules = rules
	rb.mu.Unlock()
	rb.searcher.Clear()
	return rb.Current()
}

// Watch 规则文件变化时替换规则，并把新的当前规则交给 onChange
func (rb *RuleBook) Watch(path string, onChange func(*mahjong.Rule)) error {
	return config.WatchRuleFile(path, func(defs []config.RuleDefinition) {
		rule := rb.Replace(defs)
		if onChange != nil {
			onChange(rule)
		}
	})
}
