package wsfeed

import (
	"context"
	"time"

	"Imperial/internal/rondel/contract"
	"Imperial/internal/rondel/domain"
	"Imperial/modules/kit/tracex"
)

// Broadcaster 由 ws.Hub 实现。
type Broadcaster interface {
	Broadcast(topic, name string, payload any) int
}

// Publisher 把事件推给订阅了该局的 websocket 连接。没有订阅者不是错误。
type Publisher struct {
	hub Broadcaster
	now func() time.Time
}

func NewPublisher(hub Broadcaster) *Publisher {
	return &Publisher{hub: hub, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, ev domain.Event) error {
	traceID, _ := tracex.TraceIDFrom(ctx)
	env, err := contract.FromEvent(ev, traceID, p.now())
	if err != nil {
		return err
	}
	p.hub.Broadcast(env.GameID, env.Type, env)
	return nil
}
