// Package watch хранит закладки и прогресс просмотра пользователей.
package watch

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/config"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/logger"
	"github.com/lumiforge/kinoteka-backend/internal/metrics"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
)

// TitleReader источник записей каталога для закладок и истории
type TitleReader interface {
	Get(ctx context.Context, id string) (*models.Title, error)
}

// Service операции над состоянием просмотра
type Service struct {
	db      ydb.Database
	titles  TitleReader
	policy  Policy
	nowFunc func() time.Time
}

// NewService создает сервис; titles нужен только для Bookmarks и History
func NewService(db ydb.Database, titles TitleReader, cfg *config.Config) *Service {
	policy := DefaultPolicy
	if cfg != nil {
		policy = Policy{
			MinDelta:  float64(cfg.ProgressMinDeltaSeconds),
			EndWindow: float64(cfg.ProgressEndWindowSeconds),
		}
	}
	return &Service{db: db, titles: titles, policy: policy, nowFunc: time.Now}
}

// Policy возвращает действующую политику троттлинга
func (s *Service) Policy() Policy {
	return s.policy
}

func validateIDs(userID, titleID string) error {
	if strings.TrimSpace(userID) == "" {
		return app_errors.ErrUnauthenticated
	}
	if strings.TrimSpace(titleID) == "" {
		return app_errors.InvalidArgument("film id is required")
	}
	return nil
}

func validateKind(kind models.Kind) error {
	if kind != "" && !kind.Valid() {
		return app_errors.InvalidArgument("type must be one of: film, serial")
	}
	return nil
}

// GetState возвращает состояние; отсутствие записи читается как (false, 0)
func (s *Service) GetState(ctx context.Context, userID, titleID string) (*models.WatchState, error) {
	if err := validateIDs(userID, titleID); err != nil {
		return nil, err
	}

	data, err := s.db.GetWatchData(ctx, userID, titleID)
	if err != nil {
		return nil, app_errors.Internal(err, "failed to read watch state")
	}
	if data == nil {
		return &models.WatchState{UserID: userID, TitleID: titleID}, nil
	}
	return toState(data), nil
}

// SaveProgress атомарно пишет позицию, длительность и тип; флаг закладки не меняется.
// Позиция приводится к [0, total], если длительность известна.
func (s *Service) SaveProgress(ctx context.Context, userID, titleID string, offset float64, kind models.Kind, total int64) (*models.WatchState, error) {
	if err := validateIDs(userID, titleID); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if total < 0 {
		return nil, app_errors.InvalidArgument("total_duration must not be negative")
	}
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return nil, app_errors.InvalidArgument("offset must be a finite number")
	}

	progress := clampOffset(offset, total)
	now := s.nowFunc().UTC()

	data := &ydb.WatchData{
		UserID:        userID,
		FilmID:        titleID,
		Progress:      progress,
		TotalDuration: total,
		Type:          string(kind),
		LastWatchedAt: &now,
	}
	if err := s.db.UpsertWatchProgress(ctx, data); err != nil {
		metrics.ProgressCheckpoints.WithLabelValues("failed").Inc()
		return nil, app_errors.Internal(err, "failed to save progress")
	}

	return &models.WatchState{
		UserID:        userID,
		TitleID:       titleID,
		Progress:      progress,
		TotalDuration: total,
		Type:          kind,
		LastWatchedAt: now,
		UpdatedAt:     now,
	}, nil
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clampOffset(offset float64, total int64) int64 {
	progress := int64(math.Round(offset))
	if progress < 0 {
		progress = 0
	}
	if total > 0 && progress > total {
		progress = total
	}
	return progress
}

// Checkpoint пишет прогресс, только если позиция сдвинулась больше порога
// или воспроизведение дошло до конца.
func (s *Service) Checkpoint(ctx context.Context, userID, titleID string, lastSaved, current float64, kind models.Kind, total int64) (bool, int64, error) {
	if !s.policy.ShouldPersist(lastSaved, current, float64(total)) {
		metrics.ProgressCheckpoints.WithLabelValues("skipped").Inc()
		return false, clampOffset(finiteOrZero(lastSaved), total), nil
	}

	state, err := s.SaveProgress(ctx, userID, titleID, current, kind, total)
	if err != nil {
		return false, 0, err
	}
	metrics.ProgressCheckpoints.WithLabelValues("persisted").Inc()
	return true, state.Progress, nil
}

// ToggleBookmark ставит или снимает закладку.
// Установка создает запись при необходимости, снятие требует существующей записи.
func (s *Service) ToggleBookmark(ctx context.Context, userID, titleID string, bookmarked bool, kind models.Kind) error {
	if err := validateIDs(userID, titleID); err != nil {
		return err
	}
	if err := validateKind(kind); err != nil {
		return err
	}

	state := "off"
	if bookmarked {
		state = "on"
	}

	now := s.nowFunc().UTC()
	if bookmarked {
		if err := s.db.UpsertBookmark(ctx, userID, titleID, string(kind), now); err != nil {
			metrics.BookmarkToggles.WithLabelValues(state, "error").Inc()
			return app_errors.Internal(err, "failed to set bookmark")
		}
		metrics.BookmarkToggles.WithLabelValues(state, "ok").Inc()
		return nil
	}

	existed, err := s.db.ClearBookmark(ctx, userID, titleID, now)
	if err != nil {
		metrics.BookmarkToggles.WithLabelValues(state, "error").Inc()
		return app_errors.Internal(err, "failed to clear bookmark")
	}
	if !existed {
		metrics.BookmarkToggles.WithLabelValues(state, "not_found").Inc()
		return app_errors.ErrWatchStateNotFound
	}
	metrics.BookmarkToggles.WithLabelValues(state, "ok").Inc()
	return nil
}

// Bookmarks закладки пользователя вместе с записями каталога.
// Удаленные из каталога записи пропускаются.
func (s *Service) Bookmarks(ctx context.Context, userID string) ([]*models.BookmarkedTitle, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, app_errors.ErrUnauthenticated
	}

	items, err := s.db.ListWatchData(ctx, userID, ydb.WatchDataFilter{BookmarkedOnly: true})
	if err != nil {
		return nil, app_errors.Internal(err, "failed to list bookmarks")
	}

	result := make([]*models.BookmarkedTitle, 0, len(items))
	for _, item := range items {
		title, err := s.titles.Get(ctx, item.FilmID)
		if err != nil {
			logger.FromContext(ctx).Warn("Skipping bookmark for unavailable title", "film_id", item.FilmID, "error", err)
			continue
		}
		result = append(result, &models.BookmarkedTitle{Title: title, State: toState(item)})
	}
	return result, nil
}

// History начатые просмотры, последние первыми
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*models.HistoryEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, app_errors.ErrUnauthenticated
	}

	items, err := s.db.ListWatchData(ctx, userID, ydb.WatchDataFilter{StartedOnly: true, Limit: limit})
	if err != nil {
		return nil, app_errors.Internal(err, "failed to list history")
	}

	result := make([]*models.HistoryEntry, 0, len(items))
	for _, item := range items {
		entry := &models.HistoryEntry{State: models.NewWatchStateResponse(toState(item))}
		title, err := s.titles.Get(ctx, item.FilmID)
		if err != nil {
			logger.FromContext(ctx).Warn("History entry without catalog title", "film_id", item.FilmID, "error", err)
		} else {
			entry.Title = title
		}
		result = append(result, entry)
	}
	return result, nil
}

func toState(d *ydb.WatchData) *models.WatchState {
	state := &models.WatchState{
		UserID:        d.UserID,
		TitleID:       d.FilmID,
		IsBookmarked:  d.IsBookmarked,
		Progress:      d.Progress,
		TotalDuration: d.TotalDuration,
		Type:          models.Kind(d.Type),
		UpdatedAt:     d.UpdatedAt,
	}
	if d.LastWatchedAt != nil {
		state.LastWatchedAt = *d.LastWatchedAt
	}
	return state
}
