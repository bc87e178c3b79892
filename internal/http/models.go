package http

import (
	"encoding/json"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/models"
)

// ErrorResponse represents an error response
// @Description	Error response with details
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status" example:"INVALID_ARGUMENT"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// MessageResponse represents a generic confirmation
// @Description	Generic confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents a health check response
// @Description	Health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
}

// TitleListResponse список записей каталога
// @Description	Catalog titles
type TitleListResponse struct {
	Titles []*models.Title `json:"titles"`
	Total  int             `json:"total"`
}

// BookmarksResponse закладки пользователя
// @Description	Bookmarked titles
type BookmarksResponse struct {
	Items []*models.BookmarkedTitle `json:"items"`
}

// HistoryResponse история просмотра
// @Description	Watch history, most recent first
type HistoryResponse struct {
	Items []*models.HistoryEntry `json:"items"`
}

// ReportProgressResponse результат тика плеера
// @Description	Whether a debounced write is pending
type ReportProgressResponse struct {
	Scheduled bool `json:"scheduled"`
}

// FinishResponse результат окончания просмотра
// @Description	Whether the final position was written
type FinishResponse struct {
	Persisted bool `json:"persisted"`
}

// CallableRequest тело вызова функции
// @Description	Callable function request envelope
type CallableRequest struct {
	Data json.RawMessage `json:"data" swaggertype:"object"`
}

// CallableResponse тело ответа функции
// @Description	Callable function response envelope; exactly one of result or error is set
type CallableResponse struct {
	Result *models.RoleChangeResponse `json:"result,omitempty"`
	Error  *CallableError             `json:"error,omitempty"`
}

// CallableError ошибка вызываемой функции
// @Description	Callable function error
type CallableError struct {
	Status  string `json:"status" example:"PERMISSION_DENIED"`
	Message string `json:"message"`
}
