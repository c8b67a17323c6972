package logx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"Imperial/modules/kit/errx"
	"Imperial/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	cause := errors.New("mongo down")
	e := errx.ErrUnavailable.
		WithData("op", "GameStore.Save").
		WithCause(cause)

	meta := BuildErrorLog(fmt.Errorf("pipeline: %w", e))
	if meta.Code != string(errx.CodeUnavailable) {
		t.Fatalf("期望 meta.Code=%s, got=%q", errx.CodeUnavailable, meta.Code)
	}
	if meta.Msg == "" {
		t.Fatalf("期望 meta.Msg 非空")
	}
	if meta.Data["op"] != "GameStore.Save" {
		t.Fatalf("期望 meta.Data 包含 op, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 meta.Origin/meta.Stack 非空 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
	if meta.Fatal {
		t.Fatalf("期望系统错误不是 fatal")
	}
}

func TestReportSysError_致命错误标记fatal并带关联字段(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ctx := tracex.WithGameID(context.Background(), "g-1")
	ctx = tracex.WithBillingID(ctx, "b-1")
	ReportSysError(ctx, l, NewSysLog("invoice paid", errx.NewFatal("RONDEL_GAME_NOT_INITIALIZED", "游戏未初始化").WithData("billing_id", "b-1")))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条日志, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["err_type"] != "fatal" {
		t.Fatalf("期望 err_type=fatal, got=%v", fields["err_type"])
	}
	if fields["game_id"] != "g-1" || fields["billing_id"] != "b-1" {
		t.Fatalf("期望带上 game_id/billing_id, got=%v", fields)
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("期望 ERROR 级别, got=%v", entries[0].Level)
	}
}

func TestReportBiz_INFO级别(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ReportBiz(context.Background(), NewZapLogger(zap.New(core)), NewBizLog("move rejected", "STAY_PUT", ""))

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("期望 1 条 INFO 日志, got=%v", entries)
	}
	if entries[0].Message != "move rejected, reason:STAY_PUT" {
		t.Fatalf("日志消息不符合预期: %q", entries[0].Message)
	}
}
