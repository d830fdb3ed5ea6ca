package logger

import "context"

// LoggerInterface is the subset of Logger that packages depend on, so tests
// can pass zap's no-op or observer loggers through NewFromZap.
type LoggerInterface interface {
	Info(...any)
	Warn(...any)
	Error(...any)
	Debug(...any)

	Infow(string, ...any)
	Warnw(string, ...any)
	Errorw(string, ...any)
	Debugw(string, ...any)

	InfowCtx(context.Context, string, ...any)
	WarnwCtx(context.Context, string, ...any)
	ErrorwCtx(context.Context, string, ...any)

	With(...any) LoggerInterface
	WithCPF(string) LoggerInterface
	SafeSync()
}
