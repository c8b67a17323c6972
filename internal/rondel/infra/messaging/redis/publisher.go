package redis

import (
	"context"
	"time"

	"Imperial/internal/rondel/contract"
	"Imperial/internal/rondel/domain"
	"Imperial/modules/kit/tracex"

	backend "github.com/redis/go-redis/v9"
)

const (
	defaultPrefix    = "rondel"
	defaultStreamLen = 1000
)

// Publisher 把事件写入每局一个 stream（可回放），同时 PUBLISH 到实时频道。
// 两条命令在同一个 MULTI 里执行。
type Publisher struct {
	client    backend.UniversalClient
	prefix    string
	streamLen int64
	now       func() time.Time
}

type Option func(*Publisher)

// WithPrefix key 与频道前缀，默认 "rondel"。
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithStreamLen 每局 stream 保留的近似条数。
func WithStreamLen(n int64) Option {
	return func(p *Publisher) {
		p.streamLen = n
	}
}

func NewPublisher(client backend.UniversalClient, opts ...Option) *Publisher {
	p := &Publisher{
		client:    client,
		prefix:    defaultPrefix,
		streamLen: defaultStreamLen,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) StreamKey(id domain.GameID) string {
	return p.prefix + ":events:" + string(id)
}

func (p *Publisher) Channel() string {
	return p.prefix + ".events"
}

func (p *Publisher) Publish(ctx context.Context, ev domain.Event) error {
	traceID, _ := tracex.TraceIDFrom(ctx)
	env, err := contract.FromEvent(ev, traceID, p.now())
	if err != nil {
		return err
	}
	raw, err := env.Marshal()
	if err != nil {
		return err
	}
	_, err = p.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.XAdd(ctx, &backend.XAddArgs{
			Stream: p.StreamKey(ev.AggregateID()),
			MaxLen: p.streamLen,
			Approx: true,
			Values: map[string]any{"type": env.Type, "payload": raw},
		})
		pipe.Publish(ctx, p.Channel(), raw)
		return nil
	})
	return err
}
