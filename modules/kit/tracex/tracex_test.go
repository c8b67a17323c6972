package tracex

import (
	"context"
	"testing"
	"time"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
	if _, ok := GameIDFrom(ctx); ok {
		t.Fatalf("未设置 game_id 时不应返回 ok")
	}
}

func TestDetach_保留关联字段_丢弃取消信号(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	parent = WithTraceID(parent, "t-1")
	parent = WithGameID(parent, "g-1")
	parent = WithBillingID(parent, "b-1")
	<-parent.Done()

	ctx := Detach(parent)
	if ctx.Err() != nil {
		t.Fatalf("期望 detach 后 ctx 未被取消, err=%v", ctx.Err())
	}
	if got, _ := GameIDFrom(ctx); got != "g-1" {
		t.Fatalf("期望保留 game_id, got=%q", got)
	}
	if got, _ := BillingIDFrom(ctx); got != "b-1" {
		t.Fatalf("期望保留 billing_id, got=%q", got)
	}
}
