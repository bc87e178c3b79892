// Package catalog управляет записями фильмов и сериалов.
package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumiforge/kinoteka-backend/internal/audit"
	"github.com/lumiforge/kinoteka-backend/internal/cache"
	"github.com/lumiforge/kinoteka-backend/internal/config"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/logger"
	"github.com/lumiforge/kinoteka-backend/internal/metrics"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/session"
	"github.com/lumiforge/kinoteka-backend/internal/storage"
	"github.com/lumiforge/kinoteka-backend/internal/validation"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
)

// DefaultLatestCount сколько новинок показывать на главной
const DefaultLatestCount = 6

// Service реализует операции каталога
type Service struct {
	db        ydb.Database
	storage   storage.StorageProvider
	cache     cache.Cache
	rbac      *rbac.RBAC
	audit     *audit.Service
	titleTTL  time.Duration
	listTTL   time.Duration
	maxPoster int64
}

// NewService создает сервис каталога. cache может быть nil, тогда кэш не используется.
func NewService(db ydb.Database, storage storage.StorageProvider, c cache.Cache, rbacManager *rbac.RBAC, auditService *audit.Service, cfg *config.Config) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		db:        db,
		storage:   storage,
		cache:     c,
		rbac:      rbacManager,
		audit:     auditService,
		titleTTL:  time.Duration(cfg.CacheTTLSeconds) * time.Second,
		listTTL:   time.Duration(cfg.CacheListTTLSecs) * time.Second,
		maxPoster: cfg.PosterMaxBytes,
	}
}

func (s *Service) requireManage(caller *session.Caller) error {
	if !caller.IsAuthenticated() {
		return app_errors.ErrUnauthenticated
	}
	if !caller.Can(s.rbac, rbac.PermissionCatalogManage) {
		return app_errors.ErrAdminRequired
	}
	return nil
}

// Create проверяет запись и добавляет ее в каталог. Ничего не пишется, если запись невалидна.
func (s *Service) Create(ctx context.Context, caller *session.Caller, in models.TitleInput) (*models.Title, error) {
	if err := s.requireManage(caller); err != nil {
		return nil, err
	}

	record, err := in.ToRecord()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	title := &models.Title{
		ID:        uuid.New().String(),
		Record:    record,
		CreatedAt: now,
		UpdatedAt: now,
	}

	row, err := toRow(title)
	if err != nil {
		return nil, app_errors.Internal(err, "failed to encode film")
	}
	if err := s.db.CreateFilm(ctx, row); err != nil {
		return nil, app_errors.Internal(err, "failed to create film")
	}

	metrics.CatalogWrites.WithLabelValues("create", string(record.Kind())).Inc()
	s.invalidate(ctx, title.ID, record.Kind())
	s.logAction(ctx, caller, models.AuditFilmCreated, title.ID, map[string]any{
		"type":  record.Kind(),
		"title": record.Meta().Title,
	})

	logger.FromContext(ctx).Info("Film created", "film_id", title.ID, "type", record.Kind())
	return title, nil
}

// Get возвращает запись по ID
func (s *Service) Get(ctx context.Context, id string) (*models.Title, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, app_errors.InvalidArgument("film id is required")
	}

	var cached models.Title
	if s.cacheGet(ctx, cache.TitleKey(id), &cached) {
		return &cached, nil
	}

	title, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cache.TitleKey(id), title, s.titleTTL)
	return title, nil
}

// load читает запись из базы, минуя кэш
func (s *Service) load(ctx context.Context, id string) (*models.Title, error) {
	row, err := s.db.GetFilm(ctx, id)
	if err != nil {
		if app_errors.Is(err, app_errors.KindNotFound) {
			return nil, err
		}
		return nil, app_errors.Internal(err, "failed to get film")
	}

	title, err := fromRow(row)
	if err != nil {
		return nil, app_errors.Internal(err, "stored film is corrupted")
	}
	return title, nil
}

// List возвращает весь каталог, новые записи первыми
func (s *Service) List(ctx context.Context) ([]*models.Title, error) {
	return s.list(ctx, cache.KeyAll, ydb.FilmFilter{})
}

// ListByKind возвращает только фильмы или только сериалы
func (s *Service) ListByKind(ctx context.Context, kind models.Kind) ([]*models.Title, error) {
	if !kind.Valid() {
		return nil, app_errors.InvalidArgument("type must be one of: film, serial")
	}
	return s.list(ctx, cache.KindKey(string(kind)), ydb.FilmFilter{Type: string(kind)})
}

// Latest возвращает count последних добавленных записей
func (s *Service) Latest(ctx context.Context, count int) ([]*models.Title, error) {
	if count <= 0 {
		count = DefaultLatestCount
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > count {
		all = all[:count]
	}
	return all, nil
}

// Search ищет подстроку в названии и оригинальном названии без учета регистра
func (s *Service) Search(ctx context.Context, query string) ([]*models.Title, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Title{}, nil
	}
	if len([]rune(query)) > 100 {
		return nil, app_errors.InvalidArgument("query is too long")
	}
	if validation.ContainsUnicodeAttack(query) {
		return nil, app_errors.InvalidArgument("query contains forbidden characters")
	}

	rows, err := s.db.ListFilms(ctx, ydb.FilmFilter{Query: query, Limit: 50})
	if err != nil {
		return nil, app_errors.Internal(err, "failed to search films")
	}
	return s.decodeRows(ctx, rows), nil
}

func (s *Service) list(ctx context.Context, key string, filter ydb.FilmFilter) ([]*models.Title, error) {
	var cached []*models.Title
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.db.ListFilms(ctx, filter)
	if err != nil {
		return nil, app_errors.Internal(err, "failed to list films")
	}

	titles := s.decodeRows(ctx, rows)
	s.cacheSet(ctx, key, titles, s.listTTL)
	return titles, nil
}

// decodeRows пропускает битые записи с предупреждением, чтобы одна запись не ломала весь список
func (s *Service) decodeRows(ctx context.Context, rows []*ydb.Film) []*models.Title {
	titles := make([]*models.Title, 0, len(rows))
	for _, row := range rows {
		title, err := fromRow(row)
		if err != nil {
			logger.FromContext(ctx).Warn("Skipping invalid film record", "film_id", row.FilmID, "error", err)
			continue
		}
		titles = append(titles, title)
	}
	return titles
}

// Update накладывает патч, заново проверяет запись и перезаписывает ее.
// Конкурентные правки: побеждает последняя.
func (s *Service) Update(ctx context.Context, caller *session.Caller, id string, patch models.TitlePatch) (*models.Title, error) {
	if err := s.requireManage(caller); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, app_errors.InvalidArgument("nothing to update")
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	oldKind := current.Kind()

	record, err := patch.Apply(current.Record)
	if err != nil {
		return nil, err
	}

	updated, err := s.save(ctx, current, record)
	if err != nil {
		return nil, err
	}

	metrics.CatalogWrites.WithLabelValues("update", string(record.Kind())).Inc()
	if oldKind != record.Kind() {
		s.invalidate(ctx, "", oldKind)
	}
	s.invalidate(ctx, id, record.Kind())
	s.logAction(ctx, caller, models.AuditFilmUpdated, id, map[string]any{"type": record.Kind()})

	return updated, nil
}

func (s *Service) save(ctx context.Context, current *models.Title, record models.Record) (*models.Title, error) {
	updated := &models.Title{
		ID:        current.ID,
		Record:    record,
		CreatedAt: current.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}

	row, err := toRow(updated)
	if err != nil {
		return nil, app_errors.Internal(err, "failed to encode film")
	}
	if err := s.db.UpdateFilm(ctx, row); err != nil {
		return nil, app_errors.Internal(err, "failed to update film")
	}
	updated.UpdatedAt = row.UpdatedAt
	return updated, nil
}

// UploadPoster загружает изображение в хранилище и записывает ссылку в poster_url
func (s *Service) UploadPoster(ctx context.Context, caller *session.Caller, id, contentType string, body io.Reader, size int64) (*models.Title, error) {
	if err := s.requireManage(caller); err != nil {
		return nil, err
	}
	if err := validation.ValidateImageUpload(contentType, size, s.maxPoster, "poster"); err != nil {
		return nil, app_errors.InvalidArgument("%s", err.Error())
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, _ := validation.ImageExtension(contentType)
	key := s.storage.PublicKey(fmt.Sprintf("posters/%s/%s%s", id, uuid.New().String(), ext))
	url, err := s.storage.PutObject(ctx, key, validation.NormalizeContentType(contentType), body, size)
	if err != nil {
		return nil, app_errors.Internal(err, "failed to upload poster")
	}

	record, err := models.TitlePatch{PosterURL: &url}.Apply(current.Record)
	if err != nil {
		return nil, err
	}

	updated, err := s.save(ctx, current, record)
	if err != nil {
		// объект уже загружен, но запись не обновилась
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			logger.FromContext(ctx).Warn("Failed to remove orphan poster", "key", key, "error", delErr)
		}
		return nil, err
	}

	metrics.CatalogWrites.WithLabelValues("poster", string(record.Kind())).Inc()
	s.invalidate(ctx, id, record.Kind())
	s.logAction(ctx, caller, models.AuditPosterUploaded, id, map[string]any{"key": key})

	return updated, nil
}

// invalidate сбрасывает карточку (если id задан) и списки, в которые она входит
func (s *Service) invalidate(ctx context.Context, id string, kind models.Kind) {
	keys := []string{cache.KeyAll}
	if kind != "" {
		keys = append(keys, cache.KindKey(string(kind)))
	}
	if id != "" {
		keys = append(keys, cache.TitleKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.FromContext(ctx).Warn("Failed to invalidate catalog cache", "keys", keys, "error", err)
	}
}

func (s *Service) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		logger.FromContext(ctx).Warn("Catalog cache read failed", "key", key, "error", err)
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return false
	}
	if found {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	return found
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, ttl); err != nil {
		logger.FromContext(ctx).Warn("Catalog cache write failed", "key", key, "error", err)
	}
}

func (s *Service) logAction(ctx context.Context, caller *session.Caller, action models.AuditActionType, targetID string, details map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.LogAction(ctx, audit.Record{
		UserID:     caller.UserID,
		ActionType: action,
		TargetID:   targetID,
		Details:    details,
	})
}
