package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/config"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
	ydbmocks "github.com/lumiforge/kinoteka-backend/internal/ydb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeTitles map[string]*models.Title

func (f fakeTitles) Get(_ context.Context, id string) (*models.Title, error) {
	if t, ok := f[id]; ok {
		return t, nil
	}
	return nil, app_errors.ErrFilmNotFound
}

var fixedNow = time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)

func setupWatchService(t *testing.T, titles TitleReader) (*Service, *ydbmocks.Database) {
	mockDB := ydbmocks.NewDatabase(t)
	cfg := &config.Config{ProgressMinDeltaSeconds: 5, ProgressEndWindowSeconds: 5}
	service := NewService(mockDB, titles, cfg)
	service.nowFunc = func() time.Time { return fixedNow }
	return service, mockDB
}

func TestService_GetState_Absent(t *testing.T) {
	service, mockDB := setupWatchService(t, nil)
	ctx := context.Background()

	mockDB.On("GetWatchData", ctx, "u1", "f1").Return(nil, nil)

	state, err := service.GetState(ctx, "u1", "f1")
	require.NoError(t, err)
	assert.False(t, state.IsBookmarked)
	assert.Zero(t, state.Progress)
}

func TestService_GetState_Existing(t *testing.T) {
	service, mockDB := setupWatchService(t, nil)
	ctx := context.Background()

	mockDB.On("GetWatchData", ctx, "u1", "f1").Return(&ydb.WatchData{
		UserID: "u1", FilmID: "f1", IsBookmarked: true, Progress: 42, TotalDuration: 120, Type: "film", LastWatchedAt: &fixedNow,
	}, nil)

	state, err := service.GetState(ctx, "u1", "f1")
	require.NoError(t, err)
	assert.True(t, state.IsBookmarked)
	assert.Equal(t, int64(42), state.Progress)
	assert.Equal(t, models.KindFilm, state.Type)
	assert.Equal(t, fixedNow, state.LastWatchedAt)
}

func TestService_GetState_Errors(t *testing.T) {
	service, mockDB := setupWatchService(t, nil)
	ctx := context.Background()

	_, err := service.GetState(ctx, "", "f1")
	assert.Equal(t, app_errors.KindUnauthenticated, app_errors.KindOf(err))

	_, err = service.GetState(ctx, "u1", "")
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))

	mockDB.On("GetWatchData", ctx, "u1", "f1").Return(nil, errors.New("timeout"))
	_, err = service.GetState(ctx, "u1", "f1")
	assert.Equal(t, app_errors.KindInternal, app_errors.KindOf(err))
}

func TestService_SaveProgress_ClampsOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		total  int64
		want   int64
	}{
		{"rounds down", 61.4, 120, 61},
		{"rounds up", 119.6, 120, 120},
		{"negative", -3, 120, 0},
		{"beyond total", 130, 120, 120},
		{"unknown total", 500, 0, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockDB := setupWatchService(t, nil)
			ctx := context.Background()

			mockDB.On("UpsertWatchProgress", ctx, mock.MatchedBy(func(d *ydb.WatchData) bool {
				return d.Progress == tt.want && d.TotalDuration == tt.total && !d.IsBookmarked &&
					d.LastWatchedAt != nil && d.LastWatchedAt.Equal(fixedNow)
			})).Return(nil)

			state, err := service.SaveProgress(ctx, "u1", "f1", tt.offset, models.KindFilm, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, state.Progress)
		})
	}
}

func TestService_SaveProgress_Invalid(t *testing.T) {
	service, _ := setupWatchService(t, nil)
	ctx := context.Background()

	_, err := service.SaveProgress(ctx, "u1", "f1", 10, models.KindFilm, -1)
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))

	_, err = service.SaveProgress(ctx, "u1", "f1", 10, "cartoon", 100)
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
}

func TestService_Checkpoint(t *testing.T) {
	service, mockDB := setupWatchService(t, nil)
	ctx := context.Background()

	// 61 сразу после 60 не пишется
	persisted, progress, err := service.Checkpoint(ctx, "u1", "f1", 60, 61, models.KindFilm, 120)
	require.NoError(t, err)
	assert.False(t, persisted)
	assert.Equal(t, int64(60), progress)
	mockDB.AssertNotCalled(t, "UpsertWatchProgress", mock.Anything, mock.Anything)

	// за 3 секунды до конца пишется
	mockDB.On("UpsertWatchProgress", ctx, mock.MatchedBy(func(d *ydb.WatchData) bool {
		return d.Progress == 117
	})).Return(nil).Once()

	persisted, progress, err = service.Checkpoint(ctx, "u1", "f1", 116, 117, models.KindFilm, 120)
	require.NoError(t, err)
	assert.True(t, persisted)
	assert.Equal(t, int64(117), progress)
}

func TestService_ToggleBookmark_TrueCreatesRecord(t *testing.T) {
	service, mockDB := setupWatchService(t, nil)
	ctx := context.Background()

	mockDB.On("UpsertBookmark", ctx, "u1", "f1", "serial", fixedNow).Return(nil)

	err := service.ToggleBookmark(ctx, "u1", "f1", true, models.KindSerial)
	assert.NoError(t, err)
}

func TestService_ToggleBookmark_FalseOnAbsentFails(t *testing.T) {
	service, mockDB := setupWatchService(t, nil)
	ctx := context.Background()

	mockDB.On("ClearBookmark", ctx, "u1", "f1", fixedNow).Return(false, nil)

	err := service.ToggleBookmark(ctx, "u1", "f1", false, "")
	assert.ErrorIs(t, err, app_errors.ErrWatchStateNotFound)
}

func TestService_ToggleBookmark_FalseOnExisting(t *testing.T) {
	service, mockDB := setupWatchService(t, nil)
	ctx := context.Background()

	mockDB.On("ClearBookmark", ctx, "u1", "f1", fixedNow).Return(true, nil)

	assert.NoError(t, service.ToggleBookmark(ctx, "u1", "f1", false, ""))
}

func TestService_Bookmarks_SkipsMissingTitles(t *testing.T) {
	record, err := models.TitleInput{
		Type: models.KindFilm, Title: "Брат", Year: 1997, Description: "d", VideoURL: "https://cdn.example.com/b.mp4",
	}.ToRecord()
	require.NoError(t, err)

	service, mockDB := setupWatchService(t, fakeTitles{"f1": {ID: "f1", Record: record}})
	ctx := context.Background()

	mockDB.On("ListWatchData", ctx, "u1", ydb.WatchDataFilter{BookmarkedOnly: true}).Return([]*ydb.WatchData{
		{UserID: "u1", FilmID: "f1", IsBookmarked: true},
		{UserID: "u1", FilmID: "deleted", IsBookmarked: true},
	}, nil)

	items, err := service.Bookmarks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "f1", items[0].Title.ID)
	assert.True(t, items[0].State.IsBookmarked)
}

func TestService_History(t *testing.T) {
	service, mockDB := setupWatchService(t, fakeTitles{})
	ctx := context.Background()

	mockDB.On("ListWatchData", ctx, "u1", ydb.WatchDataFilter{StartedOnly: true, Limit: 20}).Return([]*ydb.WatchData{
		{UserID: "u1", FilmID: "gone", Progress: 100, TotalDuration: 1000, LastWatchedAt: &fixedNow},
	}, nil)

	entries, err := service.History(ctx, "u1", 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Title)
	assert.Equal(t, int64(80), entries[0].State.ResumeOffset)
	assert.Equal(t, 10, entries[0].State.Percent)
}
