package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/lumiforge/kinoteka-backend/internal/config"
)

// Client обертка над S3 клиентом. Все медиа лежат в одном бакете,
// публично читаемые объекты хранятся под publicPrefix.
type Client struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	publicPrefix  string
	publicBase    *url.URL
}

// NewClient создает новый S3 клиент
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	accessKey := cfg.AWSAccessKeyID
	secretKey := cfg.AWSSecretAccessKey
	bucket := cfg.KTObjStoreBucket

	if accessKey == "" || secretKey == "" || bucket == "" {
		return nil, fmt.Errorf("AWS credentials and bucket name must be set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
	})

	base, err := publicBaseURL(cfg.S3Endpoint, bucket)
	if err != nil {
		return nil, err
	}

	return &Client{
		s3Client:      client,
		presignClient: s3.NewPresignClient(client),
		bucketName:    bucket,
		publicPrefix:  normalizePrefix(cfg.KTPublicMediaPrefix),
		publicBase:    base,
	}, nil
}

// publicBaseURL формирует Virtual-Hosted Style адрес: https://bucket.endpoint
func publicBaseURL(endpoint, bucket string) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint url has no host: %q", endpoint)
	}

	// Принудительно ставим HTTPS для публичных ссылок
	return &url.URL{Scheme: "https", Host: bucket + "." + u.Host}, nil
}

func normalizePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// PublicKey строит ключ объекта в публичной части бакета
func (c *Client) PublicKey(name string) string {
	return c.publicPrefix + strings.TrimLeft(name, "/")
}

// PublicURL возвращает постоянную публичную ссылку на объект
func (c *Client) PublicURL(key string) string {
	u := *c.publicBase
	u.Path = "/" + strings.TrimLeft(key, "/")
	return u.String()
}

// PutObject загружает объект с публичным чтением и возвращает его URL
func (c *Client) PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if key == "" {
		return "", errors.New("object key is required")
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", err
	}

	return c.PublicURL(key), nil
}

// InitiateMultipartUpload начинает загрузку
func (c *Client) InitiateMultipartUpload(ctx context.Context, key string, contentType string) (string, error) {
	resp, err := c.s3Client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", err
	}

	return aws.ToString(resp.UploadId), nil
}

// GeneratePresignedPartURL генерирует URL для загрузки части
func (c *Client) GeneratePresignedPartURL(ctx context.Context, key, uploadID string, partNumber int32, lifetime time.Duration) (string, error) {
	input := &s3.UploadPartInput{
		Bucket:     aws.String(c.bucketName),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(partNumber),
	}

	req, err := c.presignClient.PresignUploadPart(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = lifetime
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// CompleteMultipartUpload завершает загрузку
func (c *Client) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []types.CompletedPart) error {
	_, err := c.s3Client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(c.bucketName),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: parts,
		},
	})
	return err
}

// AbortMultipartUpload отменяет загрузку и освобождает загруженные части
func (c *Client) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	_, err := c.s3Client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(c.bucketName),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	return err
}

// GeneratePresignedDownloadURL генерирует URL для скачивания
func (c *Client) GeneratePresignedDownloadURL(ctx context.Context, key string, lifetime time.Duration) (string, error) {
	req, err := c.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = lifetime
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// DeleteObject удаляет объект
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("object key is required")
	}

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	return err
}

// GetObjectSize returns the size of the object in bytes
func (c *Client) GetObjectSize(ctx context.Context, key string) (int64, error) {
	output, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, err
	}
	return aws.ToInt64(output.ContentLength), nil
}

// GetObjectHeader читает первые 512 байт объекта для определения типа
func (c *Client) GetObjectHeader(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
		Range:  aws.String("bytes=0-511"),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
