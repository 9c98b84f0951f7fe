package game

import "github.com/Hachijin-Okamoto/anyjara/runtime/game/engines/mahjong"

// TableEvent 牌桌事件，统一进入 actor 队列串行处理
type TableEvent interface {
	GetEventType() string
}

// StartHandEvent 开始下一局，Rule 非空时顺带切换规则
type StartHandEvent struct {
	Rule *mahjong.Rule
}

// DiscardEvent 人工座位出牌
type DiscardEvent struct {
	Seat   int
	TileID string
}

// DeclareReachEvent 人工座位宣言立直
type DeclareReachEvent struct {
	Seat int
}

// ChangeRuleEvent 规则热更新，下一局开局时生效
type ChangeRuleEvent struct {
	Rule *mahjong.Rule
}

// stepEvent 延迟推进到期，Generation 过期的直接丢弃
type stepEvent struct {
	Generation uint64
}

func (e *StartHandEvent) GetEventType() string    { return "StartHandEvent" }
func (e *DiscardEvent) GetEventType() string      { return "DiscardEvent" }
func (e *DeclareReachEvent) GetEventType() string { return "DeclareReachEvent" }
func (e *ChangeRuleEvent) GetEventType() string   { return "ChangeRuleEvent" }
func (e *stepEvent) GetEventType() string         { return "StepEvent" }
