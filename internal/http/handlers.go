package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/lumiforge/kinoteka-backend/docs"
	"github.com/lumiforge/kinoteka-backend/internal/audit"
	"github.com/lumiforge/kinoteka-backend/internal/auth"
	"github.com/lumiforge/kinoteka-backend/internal/callable"
	"github.com/lumiforge/kinoteka-backend/internal/catalog"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/logger"
	"github.com/lumiforge/kinoteka-backend/internal/media"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/session"
	"github.com/lumiforge/kinoteka-backend/internal/watch"
)

// maxJSONBody ограничение тела JSON запросов
const maxJSONBody = 1 << 20

// Services зависимости HTTP сервера
type Services struct {
	Auth      *auth.Service
	Catalog   *catalog.Service
	Watch     *watch.Service
	Tracker   *watch.Tracker
	Media     *media.Service
	Audit     *audit.Service
	Callables *callable.Registry
	RBAC      *rbac.RBAC
	Release   string
	// Лимиты тела для загрузки изображений
	AvatarMaxBytes int64
	PosterMaxBytes int64
}

// Server represents HTTP server
type Server struct {
	Services
}

// NewServer creates a new HTTP server
func NewServer(services Services) *Server {
	if services.RBAC == nil {
		services.RBAC = rbac.NewRBAC()
	}
	if services.Callables == nil {
		services.Callables = callable.NewRegistry()
	}
	return &Server{Services: services}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("Failed to encode JSON response", "error", err)
	}
}

// writeError переводит ошибку приложения в HTTP статус.
// Для internal ошибок клиент видит только общее сообщение.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := callable.ErrorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("Request failed", "error", err)
	}
	writeJSON(w, r, status, ErrorResponse{
		Error:   http.StatusText(status),
		Status:  body.Error.Status,
		Message: body.Error.Message,
		Code:    status,
	})
}

// decodeJSON читает тело запроса; неизвестные поля допускаются
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return app_errors.InvalidArgument("request body is too large")
		}
		if errors.Is(err, io.EOF) {
			return app_errors.InvalidArgument("request body is empty")
		}
		return app_errors.InvalidArgument("Invalid request format: %s", err.Error())
	}
	return nil
}

// requireCaller вызывающий с нужным разрешением
func (s *Server) requireCaller(r *http.Request, permission rbac.Permission) (*session.Caller, error) {
	caller := session.FromContext(r.Context())
	if !caller.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	if permission != "" && !caller.Can(s.RBAC, permission) {
		return nil, app_errors.ErrAdminRequired
	}
	return caller, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, app_errors.InvalidArgument("%s must be an integer", name)
	}
	return n, nil
}

// readUpload читает тело загрузки изображения с ограничением размера
func readUpload(r *http.Request, maxBytes int64) (io.Reader, int64, error) {
	if r.ContentLength > maxBytes {
		return nil, 0, app_errors.InvalidArgument("file must be at most %d bytes", maxBytes)
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, 0, app_errors.InvalidArgument("failed to read body: %s", err.Error())
	}
	if int64(len(data)) > maxBytes {
		return nil, 0, app_errors.InvalidArgument("file must be at most %d bytes", maxBytes)
	}
	return bytes.NewReader(data), int64(len(data)), nil
}

// Health handles health check
// @Summary		Health check
// @Description	Check API health status
// @Tags		health
// @Produce	json
// @Success	200	{object}	HealthResponse
// @Router		/health [get]
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   s.Release,
	})
}

// OpenAPI отдает документ, зарегистрированный пакетом docs
func (s *Server) OpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := docs.ReadDoc()
	if err != nil {
		writeError(w, r, app_errors.Internal(err, "OpenAPI documentation not found"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, doc)
}

// Callable вызывает функцию управления ролями
// @Summary		Invoke a callable function
// @Description	Invokes updateUserRole or addAdminRole. The body is {"data": {...}}; the answer is {"result": {...}} or {"error": {"status", "message"}}
// @Tags		callable
// @Accept		json
// @Produce	json
// @Param		name	path		string			true	"Function name"	Enums(updateUserRole, addAdminRole)
// @Param		request	body		CallableRequest	true	"Function payload"
// @Security	BearerAuth
// @Success	200	{object}	CallableResponse
// @Failure	400	{object}	CallableResponse
// @Failure	401	{object}	CallableResponse
// @Failure	403	{object}	CallableResponse
// @Failure	404	{object}	CallableResponse
// @Failure	500	{object}	CallableResponse
// @Router		/callable/{name} [post]
func (s *Server) Callable(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		status, resp := callable.ErrorResponse(app_errors.InvalidArgument("request body is too large"))
		writeJSON(w, r, status, resp)
		return
	}

	status, resp := s.Callables.Invoke(r.Context(), r.PathValue("name"), session.FromContext(r.Context()), body)
	writeJSON(w, r, status, resp)
}
