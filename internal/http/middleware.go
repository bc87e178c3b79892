package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/jwt"
	"github.com/lumiforge/kinoteka-backend/internal/logger"
	"github.com/lumiforge/kinoteka-backend/internal/metrics"
	"github.com/lumiforge/kinoteka-backend/internal/session"
)

// Context keys for storing values in request context
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
)

// AuthMiddleware проверяет Bearer токен и кладет вызывающего в контекст.
// При required=false запрос без заголовка проходит анонимно, а неверный токен
// все равно отклоняется.
func AuthMiddleware(jwtManager jwt.TokenManager, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if required {
					writeError(w, r, app_errors.ErrAuthHeaderEmpty)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
			if err != nil {
				writeError(w, r, err)
				return
			}

			claims, err := jwtManager.ValidateToken(tokenString)
			if err != nil {
				writeError(w, r, err)
				return
			}

			caller := session.FromClaims(claims)
			if caller == nil {
				writeError(w, r, app_errors.ErrInvalidToken)
				return
			}
			ctx := session.WithCaller(r.Context(), caller)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", caller.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs requests and responses with structured logging
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		requestID, _ := r.Context().Value(RequestIDKey).(string)

		l := slog.With("request_id", requestID, "method", r.Method, "path", r.URL.Path)
		ctx := logger.WithContext(r.Context(), l)

		next.ServeHTTP(wrapped, r.WithContext(ctx))

		level := slog.LevelInfo
		if wrapped.statusCode >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		l.Log(ctx, level, "Request completed",
			"status_code", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"response_size_bytes", wrapped.size,
		)
	})
}

// MetricsMiddleware считает запросы по шаблону маршрута, а не по фактическому пути
func MetricsMiddleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			metrics.ObserveRequest(r.Method, route, wrapped.statusCode, time.Since(start))
		})
	}
}

// CORSMiddleware adds CORS headers
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ContentTypeMiddleware ensures JSON content type for API endpoints
func ContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter is a wrapper around http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// GetRequestID extracts request ID from request context
func GetRequestID(r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(RequestIDKey).(string)
	return requestID, ok
}
