package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type traceIDKey struct{}
type spanIDKey struct{}
type gameIDKey struct{}
type billingIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return withString(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, traceIDKey{})
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return withString(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, spanIDKey{})
}

// WithGameID 把聚合 id 挂到 ctx，日志统一输出 game_id 字段。
func WithGameID(ctx context.Context, gameID string) context.Context {
	return withString(ctx, gameIDKey{}, gameID)
}

func GameIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, gameIDKey{})
}

// WithBillingID 把跨上下文关联 id（扣费单号）挂到 ctx。
func WithBillingID(ctx context.Context, billingID string) context.Context {
	return withString(ctx, billingIDKey{}, billingID)
}

func BillingIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, billingIDKey{})
}

// Detach 返回一个不继承取消信号、但保留 trace 相关字段的新 ctx。
// actor 开始执行 I/O 之后要跑完，不能再被调用方取消。
func Detach(ctx context.Context) context.Context {
	out := context.Background()
	if ctx == nil {
		return out
	}
	if v, ok := TraceIDFrom(ctx); ok {
		out = WithTraceID(out, v)
	}
	if v, ok := SpanIDFrom(ctx); ok {
		out = WithSpanID(out, v)
	}
	if v, ok := GameIDFrom(ctx); ok {
		out = WithGameID(out, v)
	}
	if v, ok := BillingIDFrom(ctx); ok {
		out = WithBillingID(out, v)
	}
	return out
}

// NewTraceID 生成 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

func withString(ctx context.Context, key any, v string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key any) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(key).(string)
	return s, ok && s != ""
}
