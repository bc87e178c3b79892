package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/audit"
	"github.com/lumiforge/kinoteka-backend/internal/auth"
	"github.com/lumiforge/kinoteka-backend/internal/cache"
	"github.com/lumiforge/kinoteka-backend/internal/callable"
	"github.com/lumiforge/kinoteka-backend/internal/catalog"
	"github.com/lumiforge/kinoteka-backend/internal/config"
	emailmocks "github.com/lumiforge/kinoteka-backend/internal/email/mocks"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/jwt"
	"github.com/lumiforge/kinoteka-backend/internal/media"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/roles"
	storagemocks "github.com/lumiforge/kinoteka-backend/internal/storage/mocks"
	"github.com/lumiforge/kinoteka-backend/internal/watch"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
	ydbmocks "github.com/lumiforge/kinoteka-backend/internal/ydb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router  http.Handler
	db      *ydbmocks.Database
	jwt     *jwt.JWTManager
	tracker *watch.Tracker
}

func setupTestRouter(t *testing.T) *testEnv {
	mockDB := ydbmocks.NewDatabase(t)
	mockStorage := storagemocks.NewStorageProvider(t)
	mockEmail := emailmocks.NewNotifier(t)

	cfg := &config.Config{
		JWTSecretKey:   "secret",
		AvatarMaxBytes: 1 << 10,
		PosterMaxBytes: 1 << 10,
		MediaMaxBytes:  1 << 30,
	}
	jwtManager := jwt.NewJWTManager(cfg)
	realRBAC := rbac.NewRBAC()

	// Аудит не должен влиять на ответы
	mockDB.On("CreateAuditLog", mock.Anything, mock.Anything).Return(nil).Maybe()
	auditService := audit.NewService(mockDB, nil)

	authService := auth.NewService(mockDB, jwtManager, realRBAC, mockEmail, mockStorage, cache.Noop{}, auditService, cfg)
	catalogService := catalog.NewService(mockDB, mockStorage, cache.Noop{}, realRBAC, auditService, cfg)
	watchService := watch.NewService(mockDB, catalogService, nil)
	tracker := watch.NewTracker(watchService, time.Hour, nil)
	t.Cleanup(tracker.Close)
	rolesService := roles.NewService(mockDB, realRBAC, nil, auditService)

	registry := callable.NewRegistry()
	registry.Register(roles.FunctionUpdateUserRole, callable.Typed(rolesService.UpdateUserRole, rolesService.Authorize))
	registry.Register(roles.FunctionAddAdminRole, callable.Typed(rolesService.AddAdminRole, rolesService.Authorize))

	server := NewServer(Services{
		Auth:           authService,
		Catalog:        catalogService,
		Watch:          watchService,
		Tracker:        tracker,
		Media:          media.NewService(mockDB, mockStorage, realRBAC, auditService, cfg),
		Audit:          auditService,
		Callables:      registry,
		RBAC:           realRBAC,
		Release:        "test",
		AvatarMaxBytes: cfg.AvatarMaxBytes,
		PosterMaxBytes: cfg.PosterMaxBytes,
	})

	return &testEnv{
		router:  SetupRouter(server, jwtManager),
		db:      mockDB,
		jwt:     jwtManager,
		tracker: tracker,
	}
}

func (e *testEnv) token(t *testing.T, userID, role string, admin bool) string {
	access, _, err := e.jwt.GenerateTokenPair(userID, userID+"@example.com", role, admin)
	require.NoError(t, err)
	return "Bearer " + access
}

func (e *testEnv) do(method, path, body, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHandler_Health(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[HealthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
}

func TestHandler_Register_InvalidJSON(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/api/v1/auth/register", `{"email": "test@example.com", "password": "123"`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request format")
}

func TestHandler_Register_InvalidContentType(t *testing.T) {
	env := setupTestRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestHandler_Profile_RequiresAuth(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/v1/auth/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do("GET", "/api/v1/auth/profile", "", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeBody[ErrorResponse](t, w)
	assert.Equal(t, callable.StatusUnauthenticated, resp.Status)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("DELETE", "/api/v1/auth/login", "", "")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandler_ListTitles_Empty(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("ListFilms", mock.Anything, mock.Anything).Return([]*ydb.Film{}, nil).Once()

	w := env.do("GET", "/api/v1/catalog", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, float64(0), resp["total"])
	assert.Equal(t, []any{}, resp["titles"])
}

func TestHandler_ListTitles_InvalidType(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/v1/catalog?type=cartoon", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetTitle_NotFound(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetFilm", mock.Anything, "missing").Return(nil, app_errors.ErrFilmNotFound).Once()

	w := env.do("GET", "/api/v1/catalog/missing", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeBody[ErrorResponse](t, w)
	assert.Equal(t, callable.StatusNotFound, resp.Status)
}

func TestHandler_CreateTitle_ForbiddenForUser(t *testing.T) {
	env := setupTestRouter(t)

	body := `{"type":"film","title":"Брат","year":1997,"description":"d","video_url":"https://cdn.example.com/brat.mp4"}`
	w := env.do("POST", "/api/v1/catalog", body, env.token(t, "user-1", "user", false))

	assert.Equal(t, http.StatusForbidden, w.Code)
	env.db.AssertNotCalled(t, "CreateFilm", mock.Anything, mock.Anything)
}

func TestHandler_GetWatchState_Missing(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetWatchData", mock.Anything, "user-1", "film-1").Return(nil, nil).Once()

	w := env.do("GET", "/api/v1/watch/film-1", "", env.token(t, "user-1", "user", false))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, false, resp["is_bookmarked"])
	assert.Equal(t, float64(0), resp["progress"])
}

func TestHandler_SaveProgress_Throttled(t *testing.T) {
	env := setupTestRouter(t)
	token := env.token(t, "user-1", "user", false)

	// Сдвиг 2 секунды, до конца далеко: записи нет
	w := env.do("PUT", "/api/v1/watch/film-1/progress",
		`{"offset":62,"last_saved":60,"total_duration":120,"type":"film"}`, token)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[models.SaveProgressResponse](t, w)
	assert.False(t, resp.Persisted)
	assert.Equal(t, int64(60), resp.Progress)
	env.db.AssertNotCalled(t, "UpsertWatchProgress", mock.Anything, mock.Anything)

	// Последние 5 секунд пишутся всегда
	env.db.On("UpsertWatchProgress", mock.Anything, mock.MatchedBy(func(d *ydb.WatchData) bool {
		return d.UserID == "user-1" && d.FilmID == "film-1" && d.Progress == 117 && d.Type == "film"
	})).Return(nil).Once()

	w = env.do("PUT", "/api/v1/watch/film-1/progress",
		`{"offset":117,"last_saved":116,"total_duration":120,"type":"film"}`, token)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody[models.SaveProgressResponse](t, w)
	assert.True(t, resp.Persisted)
	assert.Equal(t, int64(117), resp.Progress)
}

func TestHandler_ReportProgress_SchedulesOnce(t *testing.T) {
	env := setupTestRouter(t)
	token := env.token(t, "user-1", "user", false)

	w := env.do("POST", "/api/v1/watch/film-1/progress", `{"offset":30,"total_duration":120,"type":"film"}`, token)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, decodeBody[ReportProgressResponse](t, w).Scheduled)

	w = env.do("POST", "/api/v1/watch/film-1/progress", `{"offset":31,"total_duration":120,"type":"film"}`, token)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.False(t, decodeBody[ReportProgressResponse](t, w).Scheduled)
	assert.Equal(t, 1, env.tracker.Pending())

	w = env.do("DELETE", "/api/v1/watch/film-1/session", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.tracker.Pending())
}

func TestHandler_ToggleBookmark_ClearMissing(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("ClearBookmark", mock.Anything, "user-1", "film-1", mock.Anything).Return(false, nil).Once()

	w := env.do("PUT", "/api/v1/watch/film-1/bookmark", `{"bookmarked":false}`, env.token(t, "user-1", "user", false))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ToggleBookmark_KindFromCatalog(t *testing.T) {
	env := setupTestRouter(t)
	seasons := `[{"season_number":1,"episodes":[{"episode_number":1,"title":"Пилот","video_url":"https://cdn.example.com/s1e1.mp4"}]}]`
	env.db.On("GetFilm", mock.Anything, "serial-1").Return(&ydb.Film{
		FilmID:      "serial-1",
		Type:        "serial",
		Title:       "Бригада",
		Year:        2002,
		Description: "Сериал",
		SeasonsJSON: &seasons,
	}, nil).Once()
	env.db.On("UpsertBookmark", mock.Anything, "user-1", "serial-1", "serial", mock.Anything).Return(nil).Once()
	env.db.On("GetWatchData", mock.Anything, "user-1", "serial-1").
		Return(&ydb.WatchData{UserID: "user-1", FilmID: "serial-1", IsBookmarked: true, Type: "serial"}, nil).Once()

	w := env.do("PUT", "/api/v1/watch/serial-1/bookmark", `{"bookmarked":true}`, env.token(t, "user-1", "user", false))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"serial"`)
}

func TestHandler_AuditLogs_RequiresAdmin(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/v1/admin/audit-logs", "", env.token(t, "user-1", "user", false))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_AuditLogs_BadTime(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/v1/admin/audit-logs?from=yesterday", "", env.token(t, "admin-1", "admin", true))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Callable_Unauthenticated(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/api/v1/callable/updateUserRole", `{"data":{"targetUid":"u2","newRole":"admin"}}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeBody[callable.Response](t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, callable.StatusUnauthenticated, resp.Error.Status)
	assert.Nil(t, resp.Result)
}

func TestHandler_Callable_MalformedDataChecksCallerFirst(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetUserProfile", mock.Anything, "u1").Return(&ydb.UserProfile{UserID: "u1", Role: "user"}, nil)

	tests := []struct {
		name   string
		body   string
		token  string
		code   int
		status string
	}{
		{"anonymous, wrong field type", `{"data":{"newRole":5}}`, "", http.StatusUnauthorized, callable.StatusUnauthenticated},
		{"anonymous, data is a string", `{"data":"x"}`, "", http.StatusUnauthorized, callable.StatusUnauthenticated},
		{"non-admin, wrong field type", `{"data":{"newRole":5}}`, env.token(t, "u1", "user", false), http.StatusForbidden, callable.StatusPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/api/v1/callable/updateUserRole", tt.body, tt.token)

			assert.Equal(t, tt.code, w.Code)
			resp := decodeBody[callable.Response](t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.status, resp.Error.Status)
		})
	}
	env.db.AssertNotCalled(t, "MergeUserRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Callable_UpdateUserRole(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetUserProfile", mock.Anything, "admin-1").Return(&ydb.UserProfile{UserID: "admin-1", IsAdmin: true}, nil).Twice()
	env.db.On("GetAccountByID", mock.Anything, "u2").Return(&ydb.Account{AccountID: "u2", Email: "u2@example.com"}, nil).Once()
	env.db.On("SetAdminClaim", mock.Anything, "u2", false).Return(nil).Once()
	env.db.On("MergeUserRole", mock.Anything, "u2", "subscriber", false).Return(nil).Once()

	w := env.do("POST", "/api/v1/callable/updateUserRole", `{"data":{"targetUid":"u2","newRole":"subscriber"}}`,
		env.token(t, "admin-1", "admin", true))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u2@example.com")
	assert.NotContains(t, w.Body.String(), `"error"`)
}

func TestHandler_Callable_UnknownFunction(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/api/v1/callable/dropDatabase", `{"data":{}}`, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_OpenAPI(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/openapi.json", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, json.Valid(w.Body.Bytes()))
	assert.Contains(t, w.Body.String(), "/callable/{name}")
}

func TestPlayback_ClientValuesSkipCatalog(t *testing.T) {
	// Тип и длительность заданы: каталог не нужен
	server := &Server{}

	kind, total, err := server.playback(context.Background(), "film-1", models.KindFilm, 90)

	require.NoError(t, err)
	assert.Equal(t, models.KindFilm, kind)
	assert.Equal(t, int64(90), total)
}
