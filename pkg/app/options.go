package app

import (
	"log/slog"

	"github.com/HorseArcher567/logsink/pkg/xlog"
)

// Option 用于自定义 App 的初始化行为。
type Option func(a *App)

// WithSink 使用已有的 sink，跳过根据配置创建。
// App 关闭时会一并关闭该 sink。
func WithSink(s xlog.Sink) Option {
	return func(a *App) {
		if s != nil {
			a.log = s
		}
	}
}

// WithSinkOptions 在根据配置创建 sink 时追加 xlog 选项。
func WithSinkOptions(opts ...xlog.Option) Option {
	return func(a *App) {
		a.sinkOpts = append(a.sinkOpts, opts...)
	}
}

// WithDiagnostics 设置 App 自身诊断信息的输出（默认 stderr）。
func WithDiagnostics(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.diag = l
		}
	}
}

// WithExit 替换 os.Exit（测试用）。
func WithExit(exit func(code int)) Option {
	return func(a *App) {
		if exit != nil {
			a.exit = exit
		}
	}
}
