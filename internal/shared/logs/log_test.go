package logs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	glogger "gorm.io/gorm/logger"

	"Imperial/internal/shared/config"
	"Imperial/modules/kit/tracex"
)

func observe(t *testing.T, lvl zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(lvl)
	old := current.Swap(zap.New(core))
	t.Cleanup(func() { current.Store(old) })
	return logs
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("不存在"), "解析失败回退 info")
}

func TestInit_替换全局logger(t *testing.T) {
	old := current.Load()
	t.Cleanup(func() {
		current.Store(old)
		SetLevel("info")
	})

	require.NoError(t, Init("rondel-test", config.LogConfig{Level: "error"}))
	assert.NotSame(t, old, Zap())
	assert.False(t, Zap().Core().Enabled(zapcore.InfoLevel))
	assert.NotNil(t, Logger())
}

func TestSetLevel_不重建logger即生效(t *testing.T) {
	old := current.Load()
	t.Cleanup(func() {
		current.Store(old)
		SetLevel("info")
	})
	require.NoError(t, Init("rondel-test", config.LogConfig{Level: "warn"}))
	l := Zap()
	require.False(t, l.Core().Enabled(zapcore.DebugLevel))

	SetLevel("debug")
	assert.Same(t, l, Zap())
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestGormLogger_慢查询与错误分级(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	gl := NewGormLogger(glogger.Warn, 10*time.Millisecond)
	ctx := tracex.WithGameID(tracex.WithTraceID(context.Background(), "t-1"), "g-1")
	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	gl.Trace(ctx, time.Now(), sql, errors.New("boom"))
	gl.Trace(ctx, time.Now(), sql, glogger.ErrRecordNotFound)

	entries := logs.All()
	require.Len(t, entries, 2, "记录不存在不算错误，warn 级别下也不打普通 trace")
	assert.Equal(t, "gorm slow query", entries[0].Message)
	assert.Equal(t, "gorm trace error", entries[1].Message)
	assert.Equal(t, "t-1", entries[1].ContextMap()["trace_id"])
	assert.Equal(t, "g-1", entries[1].ContextMap()["game_id"])
}

func TestGormLogger_Silent不输出(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	gl := NewGormLogger(glogger.Warn, 0).LogMode(glogger.Silent)
	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "x", 0 }, errors.New("boom"))
	assert.Zero(t, logs.Len())
}
