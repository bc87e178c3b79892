package models

import "time"

// Статусы загрузки медиа
const (
	MediaStatusUploading = "uploading"
	MediaStatusCompleted = "completed"
	MediaStatusFailed    = "failed"
)

// MediaUpload загрузка видеофайла для каталога
// @Description	Video file upload tracked by the admin console
type MediaUpload struct {
	MediaID       string     `json:"media_id"`
	FileName      string     `json:"file_name"`
	ContentType   string     `json:"content_type"`
	FileSizeBytes int64      `json:"file_size_bytes"`
	Status        string     `json:"status"`
	PublicURL     string     `json:"public_url,omitempty"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// InitiateMediaUploadRequest represents a request to initiate multipart upload
// @Description	Multipart upload initiation request
type InitiateMediaUploadRequest struct {
	FileName      string `json:"file_name" example:"brat-2.mp4"`
	ContentType   string `json:"content_type,omitempty" example:"video/mp4"`
	FileSizeBytes int64  `json:"file_size_bytes" example:"734003200"`
}

// InitiateMediaUploadResponse represents a response for initiated multipart upload
// @Description	Multipart upload initiation response
type InitiateMediaUploadResponse struct {
	MediaID               string `json:"media_id"`
	UploadID              string `json:"upload_id"`
	RecommendedPartSizeMB int32  `json:"recommended_part_size_mb"`
}

// GetPartUploadURLsRequest represents a request to get part upload URLs
// @Description	Part upload URLs request
type GetPartUploadURLsRequest struct {
	MediaID    string `json:"media_id"`
	TotalParts int32  `json:"total_parts"`
}

// GetPartUploadURLsResponse represents a response with part upload URLs
// @Description	Part upload URLs response
type GetPartUploadURLsResponse struct {
	PartURLs  []string `json:"part_urls"`
	ExpiresAt int64    `json:"expires_at"`
}

// CompletedPart represents a completed multipart upload part
// @Description	Completed multipart upload part
type CompletedPart struct {
	PartNumber int32  `json:"part_number"`
	ETag       string `json:"etag"`
}

// CompleteMediaUploadRequest represents a request to complete multipart upload
// @Description	Multipart upload completion request
type CompleteMediaUploadRequest struct {
	MediaID string          `json:"media_id"`
	Parts   []CompletedPart `json:"parts"`
}

// CompleteMediaUploadResponse represents a response for completed multipart upload
// @Description	Multipart upload completion response; video_url goes into a film or episode
type CompleteMediaUploadResponse struct {
	Message  string `json:"message"`
	VideoURL string `json:"video_url"`
}
