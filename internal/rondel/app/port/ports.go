package port

import (
	"context"

	"Imperial/internal/rondel/domain"
)

// GameStore 游戏状态存储。Load 返回 (nil, nil) 表示游戏不存在。
// 实现方在返回前调用 GameState.Validate，损坏的数据以 domain.ErrCorruptState 报告。
type GameStore interface {
	Load(ctx context.Context, id domain.GameID) (*domain.GameState, error)
	Save(ctx context.Context, s domain.GameState) error
}

// EventPublisher 按调用顺序发布领域事件。
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// CommandDispatcher 向记账上下文派发扣费/作废命令，只负责投递，不等结算结果。
type CommandDispatcher interface {
	Dispatch(ctx context.Context, cmd domain.OutboundCommand) error
}

// Metrics 流水线观测点，未注入时使用空实现。
type Metrics interface {
	ObserveMessage(message, code string, seconds float64)
	ObserveOutcome(outcome string)
}
