package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志配置
// Output取值：stdout | stderr | 文件路径（文件输出时自动切割，并同时输出到stdout）
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string
	EnableCaller bool
	MaxSizeMB    int
	MaxBackups   int
	MaxAgeDays   int
	Compress     bool
}

// New 根据配置构建zap.Logger
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(defaultString(opts.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
	}

	encoder := newEncoder(opts.Format)

	var core zapcore.Core
	switch opts.Output {
	case "", "stdout":
		core = zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	case "stderr":
		core = zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	default:
		// 文件固定JSON格式，便于日志采集；终端保留人类可读格式
		rotator := &lumberjack.Logger{
			Filename:   opts.Output,
			MaxSize:    defaultInt(opts.MaxSizeMB, 64),
			MaxBackups: defaultInt(opts.MaxBackups, 7),
			MaxAge:     defaultInt(opts.MaxAgeDays, 7),
			Compress:   opts.Compress,
		}
		core = zapcore.NewTee(
			zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotator), level),
			zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
		)
	}

	var zapOpts []zap.Option
	if opts.EnableCaller {
		zapOpts = append(zapOpts, zap.AddCaller())
	}
	zapOpts = append(zapOpts, zap.AddStacktrace(zapcore.ErrorLevel))

	return zap.New(core, zapOpts...), nil
}

// Init 构建Logger并替换zap全局Logger
// 返回的函数在进程退出前调用，刷新缓冲区
func Init(opts Options) (func(), error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	restore := zap.ReplaceGlobals(l)
	return func() {
		_ = l.Sync()
		restore()
	}, nil
}

func newEncoder(format string) zapcore.Encoder {
	if format == "json" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
