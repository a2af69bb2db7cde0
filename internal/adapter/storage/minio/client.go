// Package minio реализует ports.FileStorage поверх S3-совместимого хранилища (MinIO).
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/GoArmGo/AssetHub/internal/config"
)

// objectAPI это подмножество s3.Client, которое использует адаптер.
type objectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type uploaderAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Client представляет собой клиент для взаимодействия с MinIO.
type Client struct {
	api        objectAPI
	uploader   uploaderAPI
	bucketName string
	logger     *slog.Logger
}

// NewMinioClient создает клиент и при необходимости создаёт бакет.
func NewMinioClient(ctx context.Context, cfg *appconfig.Config, logger *slog.Logger) (*Client, error) {
	if cfg.S3.AccessKeyID == "" || cfg.S3.SecretAccessKey == "" || cfg.S3.Bucket == "" || cfg.S3.Endpoint == "" {
		return nil, fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY и S3_BUCKET должны быть заданы")
	}

	scheme := "http"
	if cfg.S3.UseSSL {
		scheme = "https"
	}
	endpoint := fmt.Sprintf("%s://%s", scheme, cfg.S3.Endpoint)

	cfgAws, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for MinIO: %w", err)
	}

	s3Client := s3.NewFromConfig(cfgAws, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	if err := ensureBucket(ctx, s3Client, cfg.S3.Bucket, cfg.S3.Region, logger); err != nil {
		return nil, err
	}

	return &Client{
		api:        s3Client,
		uploader:   manager.NewUploader(s3Client),
		bucketName: cfg.S3.Bucket,
		logger:     logger,
	}, nil
}

func ensureBucket(ctx context.Context, s3Client *s3.Client, bucket, region string, logger *slog.Logger) error {
	headCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s3Client.HeadBucket(headCtx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err == nil {
		logger.Info("bucket already exists", "bucket", bucket)
		return nil
	}

	logger.Warn("bucket not found, creating", "bucket", bucket)

	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	if _, err := s3Client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed to create bucket '%s': %w", bucket, err)
	}

	waiter := s3.NewBucketExistsWaiter(s3Client)
	if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}, 30*time.Second); err != nil {
		return fmt.Errorf("failed waiting for bucket '%s' to be created: %w", bucket, err)
	}

	logger.Info("bucket created", "bucket", bucket)
	return nil
}

// UploadFile загружает файл в бакет по ключу.
func (c *Client) UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	start := time.Now()
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucketName),
		Key:           aws.String(key),
		Body:          reader,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file %s to bucket %s: %w", key, c.bucketName, err)
	}

	c.logger.Info("file uploaded",
		"key", key,
		"size", size,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// FileExists проверяет наличие объекта через HeadObject.
func (c *Client) FileExists(ctx context.Context, key string) (bool, error) {
	_, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to head file %s: %w", key, err)
	}
	return true, nil
}

// CopyFile копирует объект внутри бакета.
func (c *Client) CopyFile(ctx context.Context, srcKey, dstKey string) error {
	_, err := c.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucketName),
		CopySource: aws.String(url.PathEscape(c.bucketName) + "/" + url.PathEscape(srcKey)),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return fmt.Errorf("failed to copy file %s to %s: %w", srcKey, dstKey, err)
	}
	c.logger.Info("file copied", "src", srcKey, "dst", dstKey)
	return nil
}

// DeleteFile удаляет файл из MinIO.
func (c *Client) DeleteFile(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file %s from bucket %s: %w", key, c.bucketName, err)
	}
	c.logger.Info("file deleted", "key", key)
	return nil
}
