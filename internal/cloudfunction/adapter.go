package cloudfunction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"unicode/utf8"

	"github.com/lumiforge/kinoteka-backend/internal/bootstrap"
)

// CloudFunctionRequest структура запроса от API Gateway
type CloudFunctionRequest struct {
	HTTPMethod        string            `json:"httpMethod"`
	Headers           map[string]string `json:"headers"`
	Path              string            `json:"path"`
	QueryStringParams map[string]string `json:"queryStringParameters"`
	Body              string            `json:"body"`
	IsBase64Encoded   bool              `json:"isBase64Encoded"`
}

// CloudFunctionResponse структура ответа для API Gateway
type CloudFunctionResponse struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

var (
	initMu      sync.Mutex
	initialized bool
	router      http.Handler

	// initialize подменяется в тестах
	initialize = func(ctx context.Context) (http.Handler, error) {
		app, err := bootstrap.Initialize(ctx)
		if err != nil {
			return nil, err
		}
		return app.Handler, nil
	}
)

// Handler - главная функция для Cloud Function.
// Отложенные записи прогресса в этом режиме живут только пока жив инстанс функции.
func Handler(ctx context.Context, request []byte) ([]byte, error) {
	h, err := handler(ctx)
	if err != nil {
		return respondError(http.StatusInternalServerError, "Failed to initialize: "+err.Error())
	}
	return serve(h, request)
}

// handler инициализирует приложение при холодном старте.
// Неудачная инициализация не запоминается: следующий вызов пробует снова.
func handler(ctx context.Context) (http.Handler, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if initialized {
		return router, nil
	}
	h, err := initialize(ctx)
	if err != nil {
		slog.Error("Cloud Function initialization failed", "error", err)
		return nil, err
	}
	router = h
	initialized = true
	slog.Info("Cloud Function initialized successfully")
	return router, nil
}

// serve прогоняет событие API Gateway через роутер
func serve(h http.Handler, request []byte) ([]byte, error) {
	// Парсинг запроса от API Gateway
	var cfReq CloudFunctionRequest
	if err := json.Unmarshal(request, &cfReq); err != nil {
		slog.Error("Failed to parse request", "error", err)
		return respondError(http.StatusBadRequest, "Invalid request format")
	}

	slog.Info("Processing request",
		"method", cfReq.HTTPMethod,
		"path", cfReq.Path,
	)

	// Создаём HTTP запрос из Cloud Function request
	httpReq, err := buildHTTPRequest(&cfReq)
	if err != nil {
		slog.Error("Failed to build HTTP request", "error", err)
		return respondError(http.StatusBadRequest, "Failed to build request")
	}

	// Создаём ResponseRecorder для захвата ответа
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httpReq)

	return buildCloudFunctionResponse(rr)
}

// buildHTTPRequest - создание HTTP запроса из Cloud Function request
func buildHTTPRequest(cfReq *CloudFunctionRequest) (*http.Request, error) {
	var body []byte
	if cfReq.Body != "" {
		body = []byte(cfReq.Body)
		// Загрузки постеров и аватаров приходят в base64
		if cfReq.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(cfReq.Body)
			if err != nil {
				return nil, err
			}
			body = decoded
		}
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(cfReq.HTTPMethod, cfReq.Path, bodyReader)
	if err != nil {
		return nil, err
	}

	// Добавляем заголовки
	for key, value := range cfReq.Headers {
		req.Header.Set(key, value)
	}

	// Добавляем query parameters
	if len(cfReq.QueryStringParams) > 0 {
		q := req.URL.Query()
		for key, value := range cfReq.QueryStringParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

// buildCloudFunctionResponse - создание Cloud Function response из HTTP response
func buildCloudFunctionResponse(rr *httptest.ResponseRecorder) ([]byte, error) {
	headers := make(map[string]string)
	for key, values := range rr.Header() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	response := CloudFunctionResponse{
		StatusCode: rr.Code,
		Headers:    headers,
	}
	body := rr.Body.Bytes()
	if utf8.Valid(body) {
		response.Body = string(body)
	} else {
		response.Body = base64.StdEncoding.EncodeToString(body)
		response.IsBase64Encoded = true
	}

	return json.Marshal(response)
}

// respondError - вспомогательная функция для ответа об ошибке
func respondError(statusCode int, message string) ([]byte, error) {
	body, _ := json.Marshal(map[string]string{"error": message})

	return json.Marshal(CloudFunctionResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	})
}
