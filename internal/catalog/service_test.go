package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/audit"
	"github.com/lumiforge/kinoteka-backend/internal/cache"
	cachemocks "github.com/lumiforge/kinoteka-backend/internal/cache/mocks"
	"github.com/lumiforge/kinoteka-backend/internal/config"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/session"
	storagemocks "github.com/lumiforge/kinoteka-backend/internal/storage/mocks"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
	ydbmocks "github.com/lumiforge/kinoteka-backend/internal/ydb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	adminCaller = &session.Caller{UserID: "admin-1", Role: rbac.RoleAdmin, Admin: true}
	userCaller  = &session.Caller{UserID: "user-1", Role: rbac.RoleUser}
)

func testConfig() *config.Config {
	return &config.Config{CacheTTLSeconds: 60, CacheListTTLSecs: 60, PosterMaxBytes: 1 << 20}
}

func setupCatalogService(t *testing.T, c cache.Cache) (*Service, *ydbmocks.Database, *storagemocks.StorageProvider) {
	mockDB := ydbmocks.NewDatabase(t)
	mockStorage := storagemocks.NewStorageProvider(t)
	auditService := audit.NewService(mockDB, nil)
	return NewService(mockDB, mockStorage, c, rbac.NewRBAC(), auditService, testConfig()), mockDB, mockStorage
}

func filmInput() models.TitleInput {
	return models.TitleInput{
		Type:          models.KindFilm,
		Title:         "Брат",
		OriginalTitle: "Brother",
		Year:          1997,
		Description:   "Демобилизованный Данила едет в Петербург",
		Genres:        []string{"драма", "криминал"},
		Duration:      "1 ч. 36 м.",
		VideoURL:      "https://cdn.example.com/brat.mp4",
	}
}

func filmRow(t *testing.T, id string) *ydb.Film {
	record, err := filmInput().ToRecord()
	require.NoError(t, err)
	row, err := toRow(&models.Title{ID: id, Record: record, CreatedAt: time.Now(), UpdatedAt: time.Now()})
	require.NoError(t, err)
	return row
}

func TestService_Create_Success(t *testing.T) {
	service, mockDB, _ := setupCatalogService(t, nil)
	ctx := context.Background()

	mockDB.On("CreateFilm", ctx, mock.MatchedBy(func(f *ydb.Film) bool {
		return f.FilmID != "" &&
			f.Type == "film" &&
			f.TitleSearch == "брат\nbrother" &&
			f.VideoURL != nil && *f.VideoURL == "https://cdn.example.com/brat.mp4" &&
			f.SeasonsJSON == nil &&
			f.GenresJSON == `["драма","криминал"]`
	})).Return(nil)
	mockDB.On("CreateAuditLog", ctx, mock.MatchedBy(func(l *ydb.AuditLog) bool {
		return l.ActionType == string(models.AuditFilmCreated)
	})).Return(nil)

	title, err := service.Create(ctx, adminCaller, filmInput())
	require.NoError(t, err)
	assert.NotEmpty(t, title.ID)
	assert.Equal(t, models.KindFilm, title.Kind())
	assert.False(t, title.CreatedAt.IsZero())
}

func TestService_Create_FilmWithoutVideoRejectedBeforeWrite(t *testing.T) {
	service, mockDB, _ := setupCatalogService(t, nil)

	in := filmInput()
	in.VideoURL = ""

	_, err := service.Create(context.Background(), adminCaller, in)
	require.Error(t, err)
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
	mockDB.AssertNotCalled(t, "CreateFilm", mock.Anything, mock.Anything)
}

func TestService_Create_SerialWithEmptySeasonRejected(t *testing.T) {
	service, mockDB, _ := setupCatalogService(t, nil)

	in := models.TitleInput{
		Type:        models.KindSerial,
		Title:       "Бригада",
		Year:        2002,
		Description: "История четырех друзей",
		Seasons:     []models.Season{{Number: 1}},
	}

	_, err := service.Create(context.Background(), adminCaller, in)
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
	mockDB.AssertNotCalled(t, "CreateFilm", mock.Anything, mock.Anything)
}

func TestService_Create_RequiresAdmin(t *testing.T) {
	service, _, _ := setupCatalogService(t, nil)
	ctx := context.Background()

	_, err := service.Create(ctx, nil, filmInput())
	assert.Equal(t, app_errors.KindUnauthenticated, app_errors.KindOf(err))

	_, err = service.Create(ctx, userCaller, filmInput())
	assert.Equal(t, app_errors.KindPermissionDenied, app_errors.KindOf(err))
}

func TestService_Get(t *testing.T) {
	service, mockDB, _ := setupCatalogService(t, nil)
	ctx := context.Background()

	mockDB.On("GetFilm", ctx, "f1").Return(filmRow(t, "f1"), nil)
	mockDB.On("GetFilm", ctx, "missing").Return(nil, app_errors.ErrFilmNotFound)
	mockDB.On("GetFilm", ctx, "broken").Return(nil, errors.New("connection reset"))

	title, err := service.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Брат", title.Record.Meta().Title)
	assert.Equal(t, "Brother", title.Record.Meta().OriginalTitle)

	_, err = service.Get(ctx, "missing")
	assert.ErrorIs(t, err, app_errors.ErrFilmNotFound)

	_, err = service.Get(ctx, "broken")
	assert.Equal(t, app_errors.KindInternal, app_errors.KindOf(err))

	_, err = service.Get(ctx, " ")
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
}

func TestService_Get_CacheHit(t *testing.T) {
	mockCache := cachemocks.NewCache(t)
	service, _, _ := setupCatalogService(t, mockCache)
	ctx := context.Background()

	record, err := filmInput().ToRecord()
	require.NoError(t, err)
	cachedJSON, err := json.Marshal(models.Title{ID: "f1", Record: record})
	require.NoError(t, err)

	mockCache.On("GetJSON", ctx, cache.TitleKey("f1"), mock.AnythingOfType("*models.Title")).
		Run(func(args mock.Arguments) {
			require.NoError(t, json.Unmarshal(cachedJSON, args.Get(2)))
		}).
		Return(true, nil)

	title, err := service.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", title.ID)
}

func TestService_Get_CacheErrorFallsThrough(t *testing.T) {
	mockCache := cachemocks.NewCache(t)
	service, mockDB, _ := setupCatalogService(t, mockCache)
	ctx := context.Background()

	mockCache.On("GetJSON", ctx, cache.TitleKey("f1"), mock.Anything).Return(false, errors.New("redis down"))
	mockCache.On("SetJSON", ctx, cache.TitleKey("f1"), mock.Anything, time.Minute).Return(errors.New("redis down"))
	mockDB.On("GetFilm", ctx, "f1").Return(filmRow(t, "f1"), nil)

	title, err := service.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", title.ID)
}

func TestService_List_SkipsInvalidRows(t *testing.T) {
	service, mockDB, _ := setupCatalogService(t, nil)
	ctx := context.Background()

	broken := filmRow(t, "f2")
	broken.VideoURL = nil

	mockDB.On("ListFilms", ctx, ydb.FilmFilter{}).Return([]*ydb.Film{filmRow(t, "f1"), broken}, nil)

	titles, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "f1", titles[0].ID)
}

func TestService_Latest(t *testing.T) {
	service, mockDB, _ := setupCatalogService(t, nil)
	ctx := context.Background()

	rows := make([]*ydb.Film, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, filmRow(t, string(rune('a'+i))))
	}
	mockDB.On("ListFilms", ctx, ydb.FilmFilter{}).Return(rows, nil)

	titles, err := service.Latest(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, titles, DefaultLatestCount)
	assert.Equal(t, "a", titles[0].ID)
}

func TestService_ListByKind(t *testing.T) {
	service, mockDB, _ := setupCatalogService(t, nil)
	ctx := context.Background()

	mockDB.On("ListFilms", ctx, ydb.FilmFilter{Type: "film"}).Return([]*ydb.Film{filmRow(t, "f1")}, nil)

	titles, err := service.ListByKind(ctx, models.KindFilm)
	require.NoError(t, err)
	assert.Len(t, titles, 1)

	_, err = service.ListByKind(ctx, "cartoon")
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
}

func TestService_Search(t *testing.T) {
	service, mockDB, _ := setupCatalogService(t, nil)
	ctx := context.Background()

	mockDB.On("ListFilms", ctx, ydb.FilmFilter{Query: "брат", Limit: 50}).Return([]*ydb.Film{filmRow(t, "f1")}, nil)

	titles, err := service.Search(ctx, "  брат ")
	require.NoError(t, err)
	assert.Len(t, titles, 1)

	titles, err = service.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, titles)

	_, err = service.Search(ctx, strings.Repeat("я", 101))
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
}

func TestService_Update(t *testing.T) {
	service, mockDB, _ := setupCatalogService(t, nil)
	ctx := context.Background()

	row := filmRow(t, "f1")
	mockDB.On("GetFilm", ctx, "f1").Return(row, nil)
	mockDB.On("UpdateFilm", ctx, mock.MatchedBy(func(f *ydb.Film) bool {
		return f.FilmID == "f1" && f.Title == "Брат 2" && f.CreatedAt.Equal(row.CreatedAt)
	})).Return(nil)
	mockDB.On("CreateAuditLog", ctx, mock.Anything).Return(nil)

	newTitle := "Брат 2"
	updated, err := service.Update(ctx, adminCaller, "f1", models.TitlePatch{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Брат 2", updated.Record.Meta().Title)
	assert.Equal(t, "https://cdn.example.com/brat.mp4", updated.Record.(*models.FilmRecord).VideoURL)
}

func TestService_Update_Validation(t *testing.T) {
	service, mockDB, _ := setupCatalogService(t, nil)
	ctx := context.Background()

	_, err := service.Update(ctx, adminCaller, "f1", models.TitlePatch{})
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))

	mockDB.On("GetFilm", ctx, "f1").Return(filmRow(t, "f1"), nil)
	empty := ""
	_, err = service.Update(ctx, adminCaller, "f1", models.TitlePatch{VideoURL: &empty})
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
	mockDB.AssertNotCalled(t, "UpdateFilm", mock.Anything, mock.Anything)

	title := "x"
	_, err = service.Update(ctx, userCaller, "f1", models.TitlePatch{Title: &title})
	assert.Equal(t, app_errors.KindPermissionDenied, app_errors.KindOf(err))
}

func TestService_UploadPoster(t *testing.T) {
	service, mockDB, mockStorage := setupCatalogService(t, nil)
	ctx := context.Background()

	mockDB.On("GetFilm", ctx, "f1").Return(filmRow(t, "f1"), nil)
	mockStorage.On("PublicKey", mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "posters/f1/") && strings.HasSuffix(name, ".png")
	})).Return("public/posters/f1/p.png")
	mockStorage.On("PutObject", ctx, "public/posters/f1/p.png", "image/png", mock.Anything, int64(4)).
		Return("https://media.storage.example/public/posters/f1/p.png", nil)
	mockDB.On("UpdateFilm", ctx, mock.MatchedBy(func(f *ydb.Film) bool {
		return f.PosterURL != nil && *f.PosterURL == "https://media.storage.example/public/posters/f1/p.png"
	})).Return(nil)
	mockDB.On("CreateAuditLog", ctx, mock.Anything).Return(nil)

	updated, err := service.UploadPoster(ctx, adminCaller, "f1", "image/png", strings.NewReader("\x89PNG"), 4)
	require.NoError(t, err)
	assert.Equal(t, "https://media.storage.example/public/posters/f1/p.png", updated.Record.Meta().PosterURL)
}

func TestService_UploadPoster_RejectsNonImage(t *testing.T) {
	service, _, _ := setupCatalogService(t, nil)

	_, err := service.UploadPoster(context.Background(), adminCaller, "f1", "application/pdf", strings.NewReader("%PDF"), 4)
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
}

func TestConvert_RoundTripSerial(t *testing.T) {
	in := models.TitleInput{
		Type:        models.KindSerial,
		Title:       "Бригада",
		Year:        2002,
		Description: "История четырех друзей",
		Seasons: []models.Season{{Number: 1, Episodes: []models.Episode{
			{Number: 1, Title: "Серия 1", VideoURL: "https://cdn.example.com/s1e1.mp4"},
		}}},
	}
	record, err := in.ToRecord()
	require.NoError(t, err)

	row, err := toRow(&models.Title{ID: "s1", Record: record})
	require.NoError(t, err)
	assert.Nil(t, row.VideoURL)
	require.NotNil(t, row.SeasonsJSON)
	assert.Equal(t, "[]", row.ActorsJSON)

	back, err := fromRow(row)
	require.NoError(t, err)
	assert.Equal(t, record, back.Record)
}
