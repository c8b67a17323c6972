package logs

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"Imperial/internal/shared/config"
	"Imperial/modules/kit/logx"
)

var (
	current atomic.Pointer[zap.Logger]
	// level 所有 core 共享，SetLevel 不需要重建 logger。
	level = zap.NewAtomicLevel()
)

func init() {
	current.Store(zap.NewNop())
}

// Init 按配置构建进程级 logger：控制台彩色输出，配置了 file_dir 时另写一路 JSON 文件（lumberjack 切割）。
// 重复调用会替换全局 logger，并先把旧的刷盘。
func Init(appName string, cfg config.LogConfig) error {
	level.SetLevel(ParseLevel(cfg.Level))
	l := build(appName, cfg, zapcore.Lock(os.Stderr))
	if old := current.Swap(l); old != nil {
		_ = old.Sync()
	}
	return nil
}

func build(appName string, cfg config.LogConfig, console zapcore.WriteSyncer) *zap.Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !cfg.Dev {
		// 非开发模式控制台通常被采集，不要 ANSI 颜色
		consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), console, level)

	if cfg.FileDir != "" {
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		var file io.Writer = &lumberjack.Logger{
			Filename:   cfg.FileDir,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		core = zapcore.NewTee(core, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), level))
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}
	return zap.New(core, opts...).Named(appName)
}

// ParseLevel 大小写不敏感，解析失败回退 info。
func ParseLevel(s string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// SetLevel 运行时调整日志级别（配置热更新使用）。
func SetLevel(s string) { level.SetLevel(ParseLevel(s)) }

// Zap 返回当前全局 zap logger，未 Init 时为 Nop。
func Zap() *zap.Logger { return current.Load() }

// Logger 把全局 logger 包装成 logx.Logger，供 app/actor 层注入。
func Logger() logx.Logger { return logx.NewZapLogger(current.Load()) }

func Sync() error { return current.Load().Sync() }

func Debug(msg string, fields ...zap.Field) { current.Load().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { current.Load().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { current.Load().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { current.Load().Error(msg, fields...) }

// Fatal 输出后 os.Exit(1)，只在 main 启动失败时使用。
func Fatal(msg string, fields ...zap.Field) { current.Load().Fatal(msg, fields...) }
