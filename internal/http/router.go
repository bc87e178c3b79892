package http

import (
	"net/http"
	"strings"

	"github.com/lumiforge/kinoteka-backend/internal/jwt"
	"github.com/lumiforge/kinoteka-backend/internal/metrics"
	"github.com/lumiforge/kinoteka-backend/internal/telemetry"
)

const apiPrefix = "/api/v1"

// SetupRouter creates and configures HTTP router
func SetupRouter(server *Server, jwtManager jwt.TokenManager) http.Handler {
	mux := http.NewServeMux()

	// routeOf отбрасывает метод из шаблона: метка метрики это путь
	routeOf := func(pattern string) string {
		if _, path, ok := strings.Cut(pattern, " "); ok {
			return path
		}
		return pattern
	}

	// public: токен необязателен, но если передан, то должен быть валидным
	public := func(pattern string, h http.HandlerFunc, extra ...func(http.Handler) http.Handler) {
		middleware := []func(http.Handler) http.Handler{
			CORSMiddleware, RequestIDMiddleware, LoggingMiddleware,
			MetricsMiddleware(routeOf(pattern)), telemetry.RecoveryMiddleware,
			AuthMiddleware(jwtManager, false),
		}
		mux.HandleFunc(pattern, chainMiddleware(h, append(middleware, extra...)...))
	}
	protected := func(pattern string, h http.HandlerFunc, extra ...func(http.Handler) http.Handler) {
		middleware := []func(http.Handler) http.Handler{
			CORSMiddleware, RequestIDMiddleware, LoggingMiddleware,
			MetricsMiddleware(routeOf(pattern)), telemetry.RecoveryMiddleware,
			AuthMiddleware(jwtManager, true),
		}
		mux.HandleFunc(pattern, chainMiddleware(h, append(middleware, extra...)...))
	}

	// Health check endpoint (no auth required)
	mux.Handle("GET /health", chainMiddleware(server.Health))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /openapi.json", chainMiddleware(server.OpenAPI, CORSMiddleware))

	// Preflight для маршрутов с методом в шаблоне
	mux.Handle("OPTIONS /", CORSMiddleware(http.NotFoundHandler()))

	// Auth routes
	public("POST "+apiPrefix+"/auth/register", server.Register, ContentTypeMiddleware)
	public("POST "+apiPrefix+"/auth/login", server.Login, ContentTypeMiddleware)
	public("POST "+apiPrefix+"/auth/refresh", server.RefreshToken, ContentTypeMiddleware)
	protected("GET "+apiPrefix+"/auth/profile", server.GetProfile)
	protected("PUT "+apiPrefix+"/auth/profile", server.UpdateProfile, ContentTypeMiddleware)
	protected("PUT "+apiPrefix+"/auth/profile/avatar", server.UploadAvatar)

	// Catalog routes
	public("GET "+apiPrefix+"/catalog", server.ListTitles)
	public("GET "+apiPrefix+"/catalog/latest", server.LatestTitles)
	public("GET "+apiPrefix+"/catalog/search", server.SearchTitles)
	public("GET "+apiPrefix+"/catalog/{id}", server.GetTitle)
	protected("POST "+apiPrefix+"/catalog", server.CreateTitle, ContentTypeMiddleware)
	protected("PATCH "+apiPrefix+"/catalog/{id}", server.UpdateTitle, ContentTypeMiddleware)
	protected("PUT "+apiPrefix+"/catalog/{id}/poster", server.UploadPoster)

	// Watch routes
	protected("GET "+apiPrefix+"/watch/{titleId}", server.GetWatchState)
	protected("PUT "+apiPrefix+"/watch/{titleId}/progress", server.SaveProgress, ContentTypeMiddleware)
	protected("POST "+apiPrefix+"/watch/{titleId}/progress", server.ReportProgress, ContentTypeMiddleware)
	protected("POST "+apiPrefix+"/watch/{titleId}/ended", server.FinishPlayback)
	protected("DELETE "+apiPrefix+"/watch/{titleId}/session", server.CancelPlayback)
	protected("PUT "+apiPrefix+"/watch/{titleId}/bookmark", server.ToggleBookmark, ContentTypeMiddleware)
	protected("GET "+apiPrefix+"/me/bookmarks", server.ListBookmarks)
	protected("GET "+apiPrefix+"/me/history", server.WatchHistory)

	// Admin routes
	protected("GET "+apiPrefix+"/admin/users", server.ListUsers)
	protected("GET "+apiPrefix+"/admin/users/{id}", server.GetUser)
	protected("GET "+apiPrefix+"/admin/audit-logs", server.GetAuditLogs)
	protected("POST "+apiPrefix+"/admin/media/initiate", server.InitiateMediaUpload, ContentTypeMiddleware)
	protected("POST "+apiPrefix+"/admin/media/urls", server.GetPartUploadURLs, ContentTypeMiddleware)
	protected("POST "+apiPrefix+"/admin/media/complete", server.CompleteMediaUpload, ContentTypeMiddleware)
	protected("GET "+apiPrefix+"/admin/media/{id}", server.GetMediaUpload)
	protected("DELETE "+apiPrefix+"/admin/media/{id}", server.AbortMediaUpload)

	// Callable функции: ошибка авторизации приходит в конверте функции
	public("POST "+apiPrefix+"/callable/{name}", server.Callable, ContentTypeMiddleware)

	return mux
}

// chainMiddleware applies multiple middleware to a handler function
func chainMiddleware(handler http.HandlerFunc, middleware ...func(http.Handler) http.Handler) http.HandlerFunc {
	h := http.Handler(handler)
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	}
}
