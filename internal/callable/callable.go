// Package callable реализует протокол вызываемых функций:
// запрос {"data": {...}}, ответ {"result": ...} или {"error": {"status", "message"}}.
package callable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/logger"
	"github.com/lumiforge/kinoteka-backend/internal/session"
)

// Статусы ошибок в теле ответа
const (
	StatusUnauthenticated  = "UNAUTHENTICATED"
	StatusPermissionDenied = "PERMISSION_DENIED"
	StatusInvalidArgument  = "INVALID_ARGUMENT"
	StatusNotFound         = "NOT_FOUND"
	StatusAlreadyExists    = "ALREADY_EXISTS"
	StatusInternal         = "INTERNAL"
)

// Func вызываемая функция; data может быть пустым
type Func func(ctx context.Context, caller *session.Caller, data json.RawMessage) (any, error)

// Request тело запроса
type Request struct {
	Data json.RawMessage `json:"data"`
}

// ErrorBody описание ошибки
type ErrorBody struct {
	Status  string `json:"status" example:"PERMISSION_DENIED"`
	Message string `json:"message"`
}

// Response тело ответа: заполнено ровно одно из полей
type Response struct {
	Result any        `json:"result,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

// Guard проверка вызывающего, которая выполняется до разбора data
type Guard func(ctx context.Context, caller *session.Caller) error

// Typed оборачивает функцию с типизированным запросом.
// Сначала выполняются guards, затем нераспознаваемый JSON отклоняется как invalid-argument.
func Typed[Req any, Resp any](fn func(ctx context.Context, caller *session.Caller, req *Req) (*Resp, error), guards ...Guard) Func {
	return func(ctx context.Context, caller *session.Caller, data json.RawMessage) (any, error) {
		for _, guard := range guards {
			if err := guard(ctx, caller); err != nil {
				return nil, err
			}
		}
		req := new(Req)
		if len(bytes.TrimSpace(data)) > 0 && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			if err := json.Unmarshal(data, req); err != nil {
				return nil, app_errors.InvalidArgument("invalid data: %s", err.Error())
			}
		}
		resp, err := fn(ctx, caller, req)
		if err != nil {
			return nil, err
		}
		return resp, nil
	}
}

// Registry набор функций по имени
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register добавляет функцию; повторная регистрация имени это ошибка программиста
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.funcs[name]; exists {
		panic(fmt.Sprintf("callable: function %q registered twice", name))
	}
	r.funcs[name] = fn
}

// Names отсортированный список зарегистрированных функций
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Invoke разбирает тело запроса, вызывает функцию и возвращает HTTP статус с телом ответа
func (r *Registry) Invoke(ctx context.Context, name string, caller *session.Caller, body []byte) (int, Response) {
	fn, ok := r.lookup(name)
	if !ok {
		return ErrorResponse(app_errors.NotFound("function %s not found", name))
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return ErrorResponse(app_errors.InvalidArgument("request body must be {\"data\": ...}"))
	}

	result, err := fn(ctx, caller, req.Data)
	if err != nil {
		if app_errors.KindOf(err) == app_errors.KindInternal {
			logger.FromContext(ctx).Error("Callable function failed", "function", name, "error", err)
		}
		return ErrorResponse(err)
	}
	return http.StatusOK, Response{Result: result}
}

// ErrorResponse переводит ошибку в статус и тело. Детали internal ошибок клиенту не отдаются.
func ErrorResponse(err error) (int, Response) {
	kind := app_errors.KindOf(err)
	message := "internal error"
	var appErr *app_errors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	return HTTPStatus(kind), Response{Error: &ErrorBody{Status: Status(kind), Message: message}}
}

// Status код ошибки протокола для kind
func Status(kind app_errors.Kind) string {
	switch kind {
	case app_errors.KindUnauthenticated:
		return StatusUnauthenticated
	case app_errors.KindPermissionDenied:
		return StatusPermissionDenied
	case app_errors.KindInvalidArgument:
		return StatusInvalidArgument
	case app_errors.KindNotFound:
		return StatusNotFound
	case app_errors.KindAlreadyExists:
		return StatusAlreadyExists
	default:
		return StatusInternal
	}
}

// HTTPStatus HTTP код для kind
func HTTPStatus(kind app_errors.Kind) int {
	switch kind {
	case app_errors.KindUnauthenticated:
		return http.StatusUnauthorized
	case app_errors.KindPermissionDenied:
		return http.StatusForbidden
	case app_errors.KindInvalidArgument:
		return http.StatusBadRequest
	case app_errors.KindNotFound:
		return http.StatusNotFound
	case app_errors.KindAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
