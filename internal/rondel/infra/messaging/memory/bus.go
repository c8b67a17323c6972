package memory

import (
	"context"
	"sync"

	"Imperial/internal/rondel/domain"
)

// Handler 订阅者回调，在 Publish 的调用方 goroutine 里同步执行。
type Handler func(ctx context.Context, ev domain.Event)

// Bus 进程内事件总线：按订阅顺序同步投递，保留全部已发布事件供查询和测试。
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
	log    []domain.Event
	// retain 只保留最近 retain 条事件，0 表示不限
	retain int
}

type Option func(*Bus)

// WithRetention 限制保留的事件条数，长期运行的进程必须设置。
func WithRetention(n int) Option {
	return func(b *Bus) { b.retain = n }
}

type subscription struct {
	id int
	fn Handler
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Subscribe 返回取消订阅函数。
func (b *Bus) Subscribe(fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Publish(ctx context.Context, ev domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	b.log = append(b.log, ev)
	if b.retain > 0 && len(b.log) > b.retain {
		b.log = append(b.log[:0:0], b.log[len(b.log)-b.retain:]...)
	}
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ctx, ev)
	}
	return nil
}

// Events 某一局已发布的事件，按发布顺序。
func (b *Bus) Events(id domain.GameID) []domain.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []domain.Event
	for _, ev := range b.log {
		if ev.AggregateID() == id {
			out = append(out, ev)
		}
	}
	return out
}
