package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/lumiforge/kinoteka-backend/internal/audit"
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
	// минимальный ftyp box, который net/http распознает как video/mp4
	mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")
	fixedNow  = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func setupMediaService(t *testing.T) (*Service, *ydbmocks.Database, *storagemocks.StorageProvider) {
	db := ydbmocks.NewDatabase(t)
	st := storagemocks.NewStorageProvider(t)
	svc := NewService(db, st, rbac.NewRBAC(), audit.NewService(db, nil), &config.Config{MediaMaxBytes: 1 << 30})
	svc.nowFunc = func() time.Time { return fixedNow }
	return svc, db, st
}

func uploadingRow() *ydb.MediaUpload {
	return &ydb.MediaUpload{
		MediaID:       "m1",
		ObjectKey:     "public/videos/m1.mp4",
		S3UploadID:    "s3-upload",
		FileName:      "brat.mp4",
		ContentType:   "video/mp4",
		FileSizeBytes: 2048,
		Status:        models.MediaStatusUploading,
		CreatedBy:     "admin-1",
	}
}

func TestInitiate(t *testing.T) {
	svc, db, st := setupMediaService(t)
	ctx := context.Background()

	st.On("PublicKey", mock.MatchedBy(func(name string) bool { return len(name) > 7 && name[:7] == "videos/" })).
		Return("public/videos/x.mp4")
	st.On("InitiateMultipartUpload", ctx, "public/videos/x.mp4", "video/mp4").Return("s3-upload", nil)
	db.On("CreateMediaUpload", ctx, mock.MatchedBy(func(u *ydb.MediaUpload) bool {
		return u.FileName == "brat.mp4" && u.Status == models.MediaStatusUploading && u.CreatedBy == "admin-1"
	})).Return(nil)

	resp, err := svc.Initiate(ctx, adminCaller, &models.InitiateMediaUploadRequest{
		FileName:      "C:\\Movies\\brat.mp4",
		FileSizeBytes: 2048,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.MediaID)
	assert.Equal(t, "s3-upload", resp.UploadID)
	assert.Equal(t, int32(recommendedPartSizeMB), resp.RecommendedPartSizeMB)
}

func TestInitiate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		caller *session.Caller
		req    models.InitiateMediaUploadRequest
		kind   app_errors.Kind
	}{
		{"anonymous", nil, models.InitiateMediaUploadRequest{FileName: "a.mp4", FileSizeBytes: 1}, app_errors.KindUnauthenticated},
		{"not admin", &session.Caller{UserID: "u1", Role: rbac.RoleSubscriber}, models.InitiateMediaUploadRequest{FileName: "a.mp4", FileSizeBytes: 1}, app_errors.KindPermissionDenied},
		{"no name", adminCaller, models.InitiateMediaUploadRequest{FileSizeBytes: 1}, app_errors.KindInvalidArgument},
		{"bidi override", adminCaller, models.InitiateMediaUploadRequest{FileName: "brat\u202egpj.mp4", FileSizeBytes: 1}, app_errors.KindInvalidArgument},
		{"not a video", adminCaller, models.InitiateMediaUploadRequest{FileName: "a.avi", FileSizeBytes: 1}, app_errors.KindInvalidArgument},
		{"empty", adminCaller, models.InitiateMediaUploadRequest{FileName: "a.mp4"}, app_errors.KindInvalidArgument},
		{"too big", adminCaller, models.InitiateMediaUploadRequest{FileName: "a.webm", FileSizeBytes: 2 << 30}, app_errors.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := setupMediaService(t)
			_, err := svc.Initiate(context.Background(), tt.caller, &tt.req)
			assert.Equal(t, tt.kind, app_errors.KindOf(err))
		})
	}
}

func TestInitiate_AbortsWhenRecordFails(t *testing.T) {
	svc, db, st := setupMediaService(t)
	ctx := context.Background()

	st.On("PublicKey", mock.Anything).Return("public/videos/x.webm")
	st.On("InitiateMultipartUpload", ctx, "public/videos/x.webm", "video/webm").Return("s3-upload", nil)
	db.On("CreateMediaUpload", ctx, mock.Anything).Return(errors.New("ydb down"))
	st.On("AbortMultipartUpload", ctx, "public/videos/x.webm", "s3-upload").Return(nil)

	_, err := svc.Initiate(ctx, adminCaller, &models.InitiateMediaUploadRequest{
		FileName:      "episode.webm",
		ContentType:   "video/webm; codecs=vp9",
		FileSizeBytes: 10,
	})
	assert.Equal(t, app_errors.KindInternal, app_errors.KindOf(err))
}

func TestPartURLs(t *testing.T) {
	svc, db, st := setupMediaService(t)
	ctx := context.Background()

	db.On("GetMediaUpload", ctx, "m1").Return(uploadingRow(), nil)
	st.On("GeneratePresignedPartURL", ctx, "public/videos/m1.mp4", "s3-upload", int32(1), partURLLifetime).Return("https://s3/part1", nil)
	st.On("GeneratePresignedPartURL", ctx, "public/videos/m1.mp4", "s3-upload", int32(2), partURLLifetime).Return("https://s3/part2", nil)
	db.On("UpdateMediaUpload", ctx, mock.MatchedBy(func(u *ydb.MediaUpload) bool {
		return u.TotalParts != nil && *u.TotalParts == 2
	})).Return(nil)

	resp, err := svc.PartURLs(ctx, adminCaller, &models.GetPartUploadURLsRequest{MediaID: "m1", TotalParts: 2})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://s3/part1", "https://s3/part2"}, resp.PartURLs)
	assert.Equal(t, fixedNow.Add(time.Hour).Unix(), resp.ExpiresAt)
}

func TestPartURLs_CompletedUpload(t *testing.T) {
	svc, db, _ := setupMediaService(t)
	ctx := context.Background()

	row := uploadingRow()
	row.Status = models.MediaStatusCompleted
	db.On("GetMediaUpload", ctx, "m1").Return(row, nil)

	_, err := svc.PartURLs(ctx, adminCaller, &models.GetPartUploadURLsRequest{MediaID: "m1", TotalParts: 1})
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
}

func TestComplete(t *testing.T) {
	svc, db, st := setupMediaService(t)
	ctx := context.Background()

	db.On("GetMediaUpload", ctx, "m1").Return(uploadingRow(), nil)
	st.On("CompleteMultipartUpload", ctx, "public/videos/m1.mp4", "s3-upload", mock.MatchedBy(func(parts []types.CompletedPart) bool {
		return len(parts) == 2 && *parts[0].PartNumber == 1 && *parts[1].ETag == "etag-2"
	})).Return(nil)
	st.On("GetObjectSize", ctx, "public/videos/m1.mp4").Return(int64(2048), nil)
	st.On("GetObjectHeader", ctx, "public/videos/m1.mp4").Return(mp4Header, nil)
	st.On("PublicURL", "public/videos/m1.mp4").Return("https://media.example.com/public/videos/m1.mp4")
	db.On("UpdateMediaUpload", ctx, mock.MatchedBy(func(u *ydb.MediaUpload) bool {
		return u.Status == models.MediaStatusCompleted && u.CompletedAt != nil && *u.PublicURL != ""
	})).Return(nil)
	db.On("CreateAuditLog", ctx, mock.Anything).Return(nil)

	resp, err := svc.Complete(ctx, adminCaller, &models.CompleteMediaUploadRequest{
		MediaID: "m1",
		Parts: []models.CompletedPart{
			{PartNumber: 2, ETag: "etag-2"},
			{PartNumber: 1, ETag: "etag-1"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/public/videos/m1.mp4", resp.VideoURL)
}

func TestComplete_RejectsNonVideo(t *testing.T) {
	svc, db, st := setupMediaService(t)
	ctx := context.Background()

	db.On("GetMediaUpload", ctx, "m1").Return(uploadingRow(), nil)
	st.On("CompleteMultipartUpload", ctx, "public/videos/m1.mp4", "s3-upload", mock.Anything).Return(nil)
	st.On("GetObjectSize", ctx, "public/videos/m1.mp4").Return(int64(2048), nil)
	st.On("GetObjectHeader", ctx, "public/videos/m1.mp4").Return([]byte("MZ\x90\x00 definitely not a video"), nil)
	st.On("DeleteObject", ctx, "public/videos/m1.mp4").Return(nil)
	db.On("UpdateMediaUpload", ctx, mock.MatchedBy(func(u *ydb.MediaUpload) bool {
		return u.Status == models.MediaStatusFailed
	})).Return(nil)

	_, err := svc.Complete(ctx, adminCaller, &models.CompleteMediaUploadRequest{
		MediaID: "m1",
		Parts:   []models.CompletedPart{{PartNumber: 1, ETag: "etag-1"}},
	})
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
}

func TestComplete_BadPartNumbers(t *testing.T) {
	svc, db, _ := setupMediaService(t)
	ctx := context.Background()

	db.On("GetMediaUpload", ctx, "m1").Return(uploadingRow(), nil)

	_, err := svc.Complete(ctx, adminCaller, &models.CompleteMediaUploadRequest{
		MediaID: "m1",
		Parts:   []models.CompletedPart{{PartNumber: 1, ETag: "a"}, {PartNumber: 3, ETag: "b"}},
	})
	assert.Equal(t, app_errors.KindInvalidArgument, app_errors.KindOf(err))
}

func TestGet(t *testing.T) {
	svc, db, _ := setupMediaService(t)
	ctx := context.Background()

	db.On("GetMediaUpload", ctx, "missing").Return(nil, app_errors.ErrMediaNotFound)

	_, err := svc.Get(ctx, adminCaller, "missing")
	assert.ErrorIs(t, err, app_errors.ErrMediaNotFound)
}

func TestAbort(t *testing.T) {
	svc, db, st := setupMediaService(t)
	ctx := context.Background()

	db.On("GetMediaUpload", ctx, "m1").Return(uploadingRow(), nil)
	st.On("AbortMultipartUpload", ctx, "public/videos/m1.mp4", "s3-upload").Return(nil)
	db.On("UpdateMediaUpload", ctx, mock.MatchedBy(func(u *ydb.MediaUpload) bool {
		return u.Status == models.MediaStatusFailed
	})).Return(nil)

	require.NoError(t, svc.Abort(ctx, adminCaller, "m1"))
}

func TestVideoType(t *testing.T) {
	ct, ext, err := videoType("", "trailer.M4V")
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", ct)
	assert.Equal(t, ".mp4", ext)

	_, _, err = videoType("image/png", "poster.png")
	assert.Error(t, err)
}
