package ydb

import (
	"context"
	"fmt"
	"time"

	app_errors "github.com/lumiforge/kinoteka-backend/internal/errors"
	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result/named"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"
)

const mediaDeclares = `
		DECLARE $media_id AS Text;
		DECLARE $object_key AS Text;
		DECLARE $s3_upload_id AS Text;
		DECLARE $file_name AS Text;
		DECLARE $content_type AS Text;
		DECLARE $file_size_bytes AS Int64;
		DECLARE $total_parts AS Optional<Int32>;
		DECLARE $status AS Text;
		DECLARE $public_url AS Optional<Text>;
		DECLARE $created_by AS Text;
		DECLARE $created_at AS Timestamp;
		DECLARE $completed_at AS Optional<Timestamp>;
`

func mediaParams(u *MediaUpload) *table.QueryParameters {
	return table.NewQueryParameters(
		table.ValueParam("$media_id", types.TextValue(u.MediaID)),
		table.ValueParam("$object_key", types.TextValue(u.ObjectKey)),
		table.ValueParam("$s3_upload_id", types.TextValue(u.S3UploadID)),
		table.ValueParam("$file_name", types.TextValue(u.FileName)),
		table.ValueParam("$content_type", types.TextValue(u.ContentType)),
		table.ValueParam("$file_size_bytes", types.Int64Value(u.FileSizeBytes)),
		optionalInt32("$total_parts", u.TotalParts),
		table.ValueParam("$status", types.TextValue(u.Status)),
		optionalText("$public_url", u.PublicURL),
		table.ValueParam("$created_by", types.TextValue(u.CreatedBy)),
		table.ValueParam("$created_at", types.TimestampValueFromTime(u.CreatedAt)),
		optionalTimestamp("$completed_at", u.CompletedAt),
	)
}

// CreateMediaUpload создает запись о multipart загрузке
func (c *YDBClient) CreateMediaUpload(ctx context.Context, upload *MediaUpload) error {
	query := mediaDeclares + `
		INSERT INTO media_uploads (
			media_id, object_key, s3_upload_id, file_name, content_type, file_size_bytes,
			total_parts, status, public_url, created_by, created_at, completed_at
		) VALUES ($media_id, $object_key, $s3_upload_id, $file_name, $content_type, $file_size_bytes,
			$total_parts, $status, $public_url, $created_by, $created_at, $completed_at)
	`

	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}

	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, _, err := session.Execute(ctx, table.DefaultTxControl(), query, mediaParams(upload))
		return err
	})
}

// GetMediaUpload получает загрузку по ID
func (c *YDBClient) GetMediaUpload(ctx context.Context, mediaID string) (*MediaUpload, error) {
	query := `
		DECLARE $media_id AS Text;
		SELECT media_id, object_key, s3_upload_id, file_name, content_type, file_size_bytes,
		       total_parts, status, public_url, created_by, created_at, completed_at
		FROM media_uploads WHERE media_id = $media_id
	`

	var u MediaUpload
	var found bool

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$media_id", types.TextValue(mediaID)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			found = true
			err := res.ScanNamed(
				named.Required("media_id", &u.MediaID),
				named.OptionalWithDefault("object_key", &u.ObjectKey),
				named.OptionalWithDefault("s3_upload_id", &u.S3UploadID),
				named.OptionalWithDefault("file_name", &u.FileName),
				named.OptionalWithDefault("content_type", &u.ContentType),
				named.OptionalWithDefault("file_size_bytes", &u.FileSizeBytes),
				named.Optional("total_parts", &u.TotalParts),
				named.OptionalWithDefault("status", &u.Status),
				named.Optional("public_url", &u.PublicURL),
				named.OptionalWithDefault("created_by", &u.CreatedBy),
				named.OptionalWithDefault("created_at", &u.CreatedAt),
				named.Optional("completed_at", &u.CompletedAt),
			)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	if !found {
		return nil, app_errors.ErrMediaNotFound
	}
	return &u, nil
}

// UpdateMediaUpload перезаписывает запись о загрузке
func (c *YDBClient) UpdateMediaUpload(ctx context.Context, upload *MediaUpload) error {
	query := mediaDeclares + `
		REPLACE INTO media_uploads (
			media_id, object_key, s3_upload_id, file_name, content_type, file_size_bytes,
			total_parts, status, public_url, created_by, created_at, completed_at
		) VALUES ($media_id, $object_key, $s3_upload_id, $file_name, $content_type, $file_size_bytes,
			$total_parts, $status, $public_url, $created_by, $created_at, $completed_at)
	`

	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, _, err := session.Execute(ctx, table.DefaultTxControl(), query, mediaParams(upload))
		return err
	})
}
