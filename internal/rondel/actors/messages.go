package actors

import (
	"context"
	"time"

	"Imperial/internal/rondel/domain"
	"Imperial/modules/kit/errx"
	"Imperial/modules/kit/tracex"
)

// Handler 执行一条消息的流水线（app.Service）。
type Handler interface {
	Handle(ctx context.Context, msg domain.Message) error
}

// Envelope 投递给 game actor 的请求。Deadline 之后才轮到执行的请求直接以取消应答。
type Envelope struct {
	Message  domain.Message
	Deadline time.Time
	TraceID  string
	SpanID   string
}

// Reply game actor 的应答，Err 为 nil 表示流水线执行成功（含规则拒绝）。
type Reply struct {
	Err error
}

// passivate 子 actor 空闲超时后请求 manager 停掉自己。
type passivate struct {
	gameID domain.GameID
}

// NewEnvelope 从调用方 ctx 提取 trace 字段。
func NewEnvelope(ctx context.Context, msg domain.Message, deadline time.Time) *Envelope {
	env := &Envelope{Message: msg, Deadline: deadline}
	if ctx != nil {
		env.TraceID, _ = tracex.TraceIDFrom(ctx)
		env.SpanID, _ = tracex.SpanIDFrom(ctx)
	}
	return env
}

func (e *Envelope) expired(now time.Time) bool {
	return !e.Deadline.IsZero() && now.After(e.Deadline)
}

// context 为流水线构造 I/O ctx：不继承调用方的取消信号，只保留关联字段。
func (e *Envelope) context() context.Context {
	ctx := tracex.WithTraceID(context.Background(), e.TraceID)
	ctx = tracex.WithSpanID(ctx, e.SpanID)
	return tracex.WithGameID(ctx, string(e.Message.AggregateID()))
}

var errEmptyEnvelope = errx.ErrReqParamERR.WithData("reason", "empty envelope")
