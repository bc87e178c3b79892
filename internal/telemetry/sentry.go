// Package telemetry wires Sentry error tracking into the service.
//
// Sentry is optional: with an empty DSN every function here is a no-op, so the
// service runs the same way locally and in tests.
package telemetry

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/lumiforge/kinoteka-backend/internal/config"
)

// InitSentry initializes the Sentry SDK. Returns false when Sentry is disabled.
func InitSentry(cfg *config.Config) (bool, error) {
	if cfg.SentryDSN == "" {
		slog.Info("SENTRY_DSN not set, Sentry disabled")
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		Release:          cfg.Release,
		TracesSampleRate: 0.2,
		AttachStacktrace: true,
		Tags: map[string]string{
			"service": "kinoteka-backend",
		},
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			return scrubPII(event)
		},
	})
	if err != nil {
		return false, fmt.Errorf("sentry.Init: %w", err)
	}
	return true, nil
}

// Alerter пересылает сообщения уровня error в Sentry
type Alerter struct{}

// SendAlert implements logger.AlertSink.
func (Alerter) SendAlert(msg string) error {
	sentry.CaptureMessage(msg)
	return nil
}

// CaptureError sends an error to Sentry with optional tags.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush waits for buffered events. Call with defer in main.
func Flush() {
	sentry.Flush(2 * time.Second)
}

// RecoveryMiddleware catches handler panics, reports them and answers 500.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(r)
				hub.Scope().SetTag("panic", "true")

				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("panic: %v", v)
				}
				hub.CaptureException(err)
				slog.Error("Recovered from panic", "error", err, "path", r.URL.Path)

				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func scrubPII(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}
	if event.User.Email != "" {
		event.User.Email = "[redacted]"
	}
	event.User.IPAddress = ""
	if event.Request != nil {
		for k := range event.Request.Headers {
			switch k {
			case "Authorization", "Cookie":
				event.Request.Headers[k] = "[redacted]"
			}
		}
	}
	return event
}
