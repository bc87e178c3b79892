package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// AlertSink получает сообщения уровня error (Telegram, Sentry)
type AlertSink interface {
	SendAlert(msg string) error
}

type AlertHandler struct {
	slog.Handler
	sinks []AlertSink
}

func (h *AlertHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		for _, sink := range h.sinks {
			if sink == nil {
				continue
			}
			if err := sink.SendAlert(r.Message); err != nil {
				// Пишем напрямую в stderr, чтобы не уйти в рекурсию через slog
				os.Stderr.WriteString("Failed to send alert: " + err.Error() + "\n")
			}
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *AlertHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AlertHandler{
		Handler: h.Handler.WithAttrs(attrs),
		sinks:   h.sinks,
	}
}

func (h *AlertHandler) WithGroup(name string) slog.Handler {
	return &AlertHandler{
		Handler: h.Handler.WithGroup(name),
		sinks:   h.sinks,
	}
}

func New(sinks ...AlertSink) *slog.Logger {
	return NewWithWriter(os.Stdout, sinks...)
}

func NewWithWriter(w io.Writer, sinks ...AlertSink) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(&AlertHandler{
		Handler: jsonHandler,
		sinks:   sinks,
	})
}

type ctxKey struct{}

func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
