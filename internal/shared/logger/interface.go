package logger

import "log/slog"

// Interface is the logging surface handed to use cases, handlers and jobs.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Interface
	Named(name string) Interface

	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

type slogLogger struct {
	l *slog.Logger
}

func NewLogger() Interface {
	return &slogLogger{l: Get()}
}

func NewLoggerWithSlog(l *slog.Logger) Interface {
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Interface {
	return &slogLogger{l: s.l.With(args...)}
}

func (s *slogLogger) Named(name string) Interface {
	return &slogLogger{l: s.l.With("logger", name)}
}

func (s *slogLogger) Debugw(msg string, kv ...interface{}) { s.l.Debug(msg, kv...) }
func (s *slogLogger) Infow(msg string, kv ...interface{})  { s.l.Info(msg, kv...) }
func (s *slogLogger) Warnw(msg string, kv ...interface{})  { s.l.Warn(msg, kv...) }
func (s *slogLogger) Errorw(msg string, kv ...interface{}) { s.l.Error(msg, kv...) }

// NewNopLogger discards every record. Used by tests and by tooling that runs before Init.
func NewNopLogger() Interface {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(string, ...any)          {}
func (n *nopLogger) Info(string, ...any)           {}
func (n *nopLogger) Warn(string, ...any)           {}
func (n *nopLogger) Error(string, ...any)          {}
func (n *nopLogger) With(...any) Interface         { return n }
func (n *nopLogger) Named(string) Interface        { return n }
func (n *nopLogger) Debugw(string, ...interface{}) {}
func (n *nopLogger) Infow(string, ...interface{})  {}
func (n *nopLogger) Warnw(string, ...interface{})  {}
func (n *nopLogger) Errorw(string, ...interface{}) {}
