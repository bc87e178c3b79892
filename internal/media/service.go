// Package media загружает видеофайлы каталога в объектное хранилище
// через multipart upload с presigned URL для каждой части.
package media

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/lumiforge/kinoteka-backend/internal/audit"
	"github.com/lumiforge/kinoteka-backend/internal/config"
	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/lumiforge/kinoteka-backend/internal/logger"
	"github.com/lumiforge/kinoteka-backend/internal/models"
	"github.com/lumiforge/kinoteka-backend/internal/rbac"
	"github.com/lumiforge/kinoteka-backend/internal/session"
	"github.com/lumiforge/kinoteka-backend/internal/storage"
	"github.com/lumiforge/kinoteka-backend/internal/validation"
	"github.com/lumiforge/kinoteka-backend/internal/ydb"
)

const (
	recommendedPartSizeMB = 10
	// S3 ограничивает multipart upload 10000 частями
	maxParts        = 10000
	partURLLifetime = time.Hour
	maxFileNameLen  = 255
)

var videoContentTypes = map[string]string{
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
}

// Service управляет загрузками видео
type Service struct {
	db       ydb.Database
	storage  storage.StorageProvider
	rbac     *rbac.RBAC
	audit    *audit.Service
	maxBytes int64
	nowFunc  func() time.Time
}

func NewService(db ydb.Database, storageClient storage.StorageProvider, rbacManager *rbac.RBAC, auditService *audit.Service, cfg *config.Config) *Service {
	return &Service{
		db:       db,
		storage:  storageClient,
		rbac:     rbacManager,
		audit:    auditService,
		maxBytes: cfg.MediaMaxBytes,
		nowFunc:  time.Now,
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

// Initiate начинает multipart upload и создает запись загрузки
func (s *Service) Initiate(ctx context.Context, caller *session.Caller, req *models.InitiateMediaUploadRequest) (*models.InitiateMediaUploadResponse, error) {
	if err := s.requireManage(caller); err != nil {
		return nil, err
	}

	fileName := path.Base(strings.TrimSpace(strings.ReplaceAll(req.FileName, "\\", "/")))
	if fileName == "." || fileName == "/" {
		fileName = ""
	}
	fileName, err := validation.SanitizeText(fileName, "file_name", validation.PlainText(maxFileNameLen).Require())
	if err != nil {
		return nil, app_errors.InvalidArgument("%s", err.Error())
	}
	contentType, ext, err := videoType(req.ContentType, fileName)
	if err != nil {
		return nil, err
	}
	if req.FileSizeBytes <= 0 {
		return nil, app_errors.InvalidArgument("file_size_bytes must be positive")
	}
	if s.maxBytes > 0 && req.FileSizeBytes > s.maxBytes {
		return nil, app_errors.InvalidArgument("file_size_bytes must be at most %d", s.maxBytes)
	}

	mediaID := uuid.New().String()
	objectKey := s.storage.PublicKey(fmt.Sprintf("videos/%s%s", mediaID, ext))

	uploadID, err := s.storage.InitiateMultipartUpload(ctx, objectKey, contentType)
	if err != nil {
		return nil, app_errors.Internal(err, "failed to initiate upload")
	}

	upload := &ydb.MediaUpload{
		MediaID:       mediaID,
		ObjectKey:     objectKey,
		S3UploadID:    uploadID,
		FileName:      fileName,
		ContentType:   contentType,
		FileSizeBytes: req.FileSizeBytes,
		Status:        models.MediaStatusUploading,
		CreatedBy:     caller.UserID,
		CreatedAt:     s.nowFunc(),
	}
	if err := s.db.CreateMediaUpload(ctx, upload); err != nil {
		if abortErr := s.storage.AbortMultipartUpload(ctx, objectKey, uploadID); abortErr != nil {
			logger.FromContext(ctx).Warn("Failed to abort orphan upload", "key", objectKey, "error", abortErr)
		}
		return nil, app_errors.Internal(err, "failed to create upload record")
	}

	return &models.InitiateMediaUploadResponse{
		MediaID:               mediaID,
		UploadID:              uploadID,
		RecommendedPartSizeMB: recommendedPartSizeMB,
	}, nil
}

// videoType определяет тип по заявленному Content-Type или по расширению файла
func videoType(declared, fileName string) (string, string, error) {
	contentType := validation.NormalizeContentType(declared)
	if contentType == "" {
		switch strings.ToLower(path.Ext(fileName)) {
		case ".mp4", ".m4v":
			contentType = "video/mp4"
		case ".webm":
			contentType = "video/webm"
		}
	}
	ext, ok := videoContentTypes[contentType]
	if !ok {
		return "", "", app_errors.InvalidArgument("only mp4 and webm videos are supported")
	}
	return contentType, ext, nil
}

// PartURLs выдает presigned URL для частей 1..TotalParts
func (s *Service) PartURLs(ctx context.Context, caller *session.Caller, req *models.GetPartUploadURLsRequest) (*models.GetPartUploadURLsResponse, error) {
	if err := s.requireManage(caller); err != nil {
		return nil, err
	}
	if req.TotalParts <= 0 || req.TotalParts > maxParts {
		return nil, app_errors.InvalidArgument("total_parts must be between 1 and %d", maxParts)
	}

	upload, err := s.activeUpload(ctx, req.MediaID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, req.TotalParts)
	for i := range urls {
		url, err := s.storage.GeneratePresignedPartURL(ctx, upload.ObjectKey, upload.S3UploadID, int32(i+1), partURLLifetime)
		if err != nil {
			return nil, app_errors.Internal(err, fmt.Sprintf("failed to generate url for part %d", i+1))
		}
		urls[i] = url
	}

	totalParts := req.TotalParts
	upload.TotalParts = &totalParts
	if err := s.db.UpdateMediaUpload(ctx, upload); err != nil {
		return nil, app_errors.Internal(err, "failed to update upload record")
	}

	return &models.GetPartUploadURLsResponse{
		PartURLs:  urls,
		ExpiresAt: s.nowFunc().Add(partURLLifetime).Unix(),
	}, nil
}

// Complete собирает части, проверяет заголовок файла и возвращает публичный URL видео.
// Файл, не похожий на видео, удаляется.
func (s *Service) Complete(ctx context.Context, caller *session.Caller, req *models.CompleteMediaUploadRequest) (*models.CompleteMediaUploadResponse, error) {
	if err := s.requireManage(caller); err != nil {
		return nil, err
	}
	if len(req.Parts) == 0 {
		return nil, app_errors.InvalidArgument("parts are required")
	}

	upload, err := s.activeUpload(ctx, req.MediaID)
	if err != nil {
		return nil, err
	}

	parts, err := completedParts(req.Parts)
	if err != nil {
		return nil, err
	}
	if err := s.storage.CompleteMultipartUpload(ctx, upload.ObjectKey, upload.S3UploadID, parts); err != nil {
		return nil, app_errors.Internal(err, "failed to complete upload")
	}

	if err := s.verifyObject(ctx, upload); err != nil {
		upload.Status = models.MediaStatusFailed
		if delErr := s.storage.DeleteObject(ctx, upload.ObjectKey); delErr != nil {
			logger.FromContext(ctx).Warn("Failed to delete rejected upload", "key", upload.ObjectKey, "error", delErr)
		}
		if updErr := s.db.UpdateMediaUpload(ctx, upload); updErr != nil {
			logger.FromContext(ctx).Warn("Failed to mark upload failed", "media_id", upload.MediaID, "error", updErr)
		}
		return nil, err
	}

	publicURL := s.storage.PublicURL(upload.ObjectKey)
	now := s.nowFunc()
	upload.Status = models.MediaStatusCompleted
	upload.PublicURL = &publicURL
	upload.CompletedAt = &now
	if err := s.db.UpdateMediaUpload(ctx, upload); err != nil {
		return nil, app_errors.Internal(err, "failed to update upload record")
	}

	if s.audit != nil {
		_ = s.audit.LogAction(ctx, audit.Record{
			UserID:     caller.UserID,
			ActionType: models.AuditMediaUploaded,
			TargetID:   upload.MediaID,
			Details:    map[string]any{"file_name": upload.FileName, "size": upload.FileSizeBytes},
		})
	}

	return &models.CompleteMediaUploadResponse{
		Message:  "Upload completed",
		VideoURL: publicURL,
	}, nil
}

func completedParts(in []models.CompletedPart) ([]types.CompletedPart, error) {
	sorted := append([]models.CompletedPart(nil), in...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PartNumber < sorted[j].PartNumber })

	parts := make([]types.CompletedPart, len(sorted))
	for i, p := range sorted {
		if p.PartNumber != int32(i+1) || strings.TrimSpace(p.ETag) == "" {
			return nil, app_errors.InvalidArgument("parts must be numbered 1..%d and carry an etag", len(sorted))
		}
		parts[i] = types.CompletedPart{
			ETag:       aws.String(p.ETag),
			PartNumber: aws.Int32(p.PartNumber),
		}
	}
	return parts, nil
}

// verifyObject сверяет размер и сигнатуру собранного файла с заявленными
func (s *Service) verifyObject(ctx context.Context, upload *ydb.MediaUpload) error {
	size, err := s.storage.GetObjectSize(ctx, upload.ObjectKey)
	if err != nil {
		return app_errors.Internal(err, "failed to read uploaded object")
	}
	if size != upload.FileSizeBytes {
		return app_errors.InvalidArgument("uploaded size %d does not match declared %d", size, upload.FileSizeBytes)
	}

	header, err := s.storage.GetObjectHeader(ctx, upload.ObjectKey)
	if err != nil {
		return app_errors.Internal(err, "failed to read uploaded object")
	}
	if detected := http.DetectContentType(header); detected != upload.ContentType {
		return app_errors.InvalidArgument("uploaded file is %s, expected %s", detected, upload.ContentType)
	}
	return nil
}

// activeUpload загрузка, которую еще можно продолжать
func (s *Service) activeUpload(ctx context.Context, mediaID string) (*ydb.MediaUpload, error) {
	if strings.TrimSpace(mediaID) == "" {
		return nil, app_errors.InvalidArgument("media_id is required")
	}
	upload, err := s.db.GetMediaUpload(ctx, mediaID)
	if err != nil {
		if app_errors.Is(err, app_errors.KindNotFound) {
			return nil, err
		}
		return nil, app_errors.Internal(err, "failed to get upload")
	}
	if upload.Status != models.MediaStatusUploading {
		return nil, app_errors.InvalidArgument("upload is already %s", upload.Status)
	}
	return upload, nil
}

// Get состояние загрузки
func (s *Service) Get(ctx context.Context, caller *session.Caller, mediaID string) (*models.MediaUpload, error) {
	if err := s.requireManage(caller); err != nil {
		return nil, err
	}
	upload, err := s.db.GetMediaUpload(ctx, mediaID)
	if err != nil {
		if app_errors.Is(err, app_errors.KindNotFound) {
			return nil, err
		}
		return nil, app_errors.Internal(err, "failed to get upload")
	}

	info := &models.MediaUpload{
		MediaID:       upload.MediaID,
		FileName:      upload.FileName,
		ContentType:   upload.ContentType,
		FileSizeBytes: upload.FileSizeBytes,
		Status:        upload.Status,
		CreatedBy:     upload.CreatedBy,
		CreatedAt:     upload.CreatedAt,
		CompletedAt:   upload.CompletedAt,
	}
	if upload.PublicURL != nil {
		info.PublicURL = *upload.PublicURL
	}
	return info, nil
}

// Abort отменяет незавершенную загрузку и освобождает части в хранилище
func (s *Service) Abort(ctx context.Context, caller *session.Caller, mediaID string) error {
	if err := s.requireManage(caller); err != nil {
		return err
	}
	upload, err := s.activeUpload(ctx, mediaID)
	if err != nil {
		return err
	}
	if err := s.storage.AbortMultipartUpload(ctx, upload.ObjectKey, upload.S3UploadID); err != nil {
		return app_errors.Internal(err, "failed to abort upload")
	}
	upload.Status = models.MediaStatusFailed
	if err := s.db.UpdateMediaUpload(ctx, upload); err != nil {
		return app_errors.Internal(err, "failed to update upload record")
	}
	return nil
}
