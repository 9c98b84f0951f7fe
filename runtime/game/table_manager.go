package game

import (
	"fmt"
	"sync"

	"github.com/Hachijin-Okamoto/anyjara/common/log"
	"github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"
	"github.com/google/uuid"
)

// TableManager 牌桌管理器
// 创建的牌桌共享 Searcher
type TableManager struct {
	tables   map[string]*Table
	searcher *mahjong.Searcher
	mu       sync.RWMutex
}

func NewTableManager(searcher *mahjong.Searcher) *TableManager {
	return &TableManager{
		tables:   make(map[string]*Table),
		searcher: searcher,
	}
}

// CreateTable 创建并启动牌桌，opts.ID 为空时生成 uuid
func (tm *TableManager) CreateTable(opts TableOptions) (*Table, error) {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Searcher == nil {
		opts.Searcher = tm.searcher
	}
	if opts.HumanSeat >= 0 && opts.HumanSeat < mahjong.SeatCount {
		opts.Strategies[opts.HumanSeat] = mahjong.StrategyHuman
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, exists := tm.tables[opts.ID]; exists {
		return nil, fmt.Errorf("牌桌 %s 已存在", opts.ID)
	}
	table, err := NewTable(opts)
	if err != nil {
		return nil, fmt.Errorf("创建牌桌失败: %w", err)
	}
	table.Start()
	tm.tables[table.ID] = table

	log.Info("TableManager 创建牌桌 %s，规则 %s，策略 %v", table.ID, table.State().Rule.Name, table.Strategies())
	return table, nil
}

func (tm *TableManager) GetTable(tableID string) (*Table, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	table, exists := tm.tables[tableID]
	return table, exists
}

// DeleteTable 关闭并移除牌桌
func (tm *TableManager) DeleteTable(tableID string) error {
	tm.mu.Lock()
	table, exists := tm.tables[tableID]
	if !exists {
		tm.mu.Unlock()
		return fmt.Errorf("牌桌 %s 不存在", tableID)
	}
	delete(tm.tables, tableID)
	tm.mu.Unlock()

	table.Close()
	log.Info("TableManager 删除牌桌 %s", tableID)
	return nil
}

// ChangeRule 规则热更新，所有牌桌在下一局切换
func (tm *TableManager) ChangeRule(rule *mahjong.Rule) {
	for _, table := range tm.GetAllTables() {
		if err := table.ChangeRule(rule); err != nil {
			log.Warn("牌桌 %s 切换规则失败: %v", table.ID, err)
		}
	}
}

// GetStats 牌桌数和已结束的局数，供 Monitor 使用
func (tm *TableManager) GetStats() (tableCount int, handCount int) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	tableCount = len(tm.tables)
	for _, table := range tm.tables {
		handCount += table.HandsPlayed()
	}
	return tableCount, handCount
}

// GetAllTables 返回副本
func (tm *TableManager) GetAllTables() []*Table {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	tables := make([]*Table, 0, len(tm.tables))
	for _, table := range tm.tables {
		tables = append(tables, table)
	}
	return tables
}

// CloseAll 进程退出时关闭所有牌桌
func (tm *TableManager) CloseAll() {
	tm.mu.Lock()
	tables := tm.tables
	tm.tables = make(map[string]*Table)
	tm.mu.Unlock()

	for _, table := range tables {
		table.Close()
	}
}
