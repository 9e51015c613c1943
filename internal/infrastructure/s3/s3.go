package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"file-storage-api/config"
)

// Backend keeps file content as objects in one bucket. S3 has no
// directories, so the namespace operations are no-ops.
type Backend struct {
	logger *zap.Logger
	client *s3.Client
	region string
	bucket string
}

func New(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.S3,
) (*Backend, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		// S3 compatible stores (MinIO, Ceph) reject streaming checksums.
		awsconfig.WithRequestChecksumCalculation(aws.RequestChecksumCalculationWhenRequired),
		awsconfig.WithResponseChecksumValidation(aws.ResponseChecksumValidationWhenRequired),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info("s3 backend ready",
		zap.String("bucket", cfg.BucketUploads),
		zap.String("region", cfg.Region),
		zap.String("endpoint", cfg.Endpoint),
	)

	return &Backend{
		logger: logger,
		client: client,
		region: cfg.Region,
		bucket: cfg.BucketUploads,
	}, nil
}

func (b *Backend) GetBucket() string { return b.bucket }

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// Put uploads body and reads the stored size back with HeadObject. Bodies
// that cannot seek are spooled to a temp file first so the request can be
// signed and retried.
func (b *Backend) Put(ctx context.Context, key string, body io.Reader) (int64, error) {
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		tmp, err := os.CreateTemp("", "s3-spool-*")
		if err != nil {
			return 0, fmt.Errorf("spool %s: %w", key, err)
		}
		defer func() {
			tmp.Close()
			os.Remove(tmp.Name())
		}()
		if _, err = io.Copy(tmp, body); err != nil {
			return 0, fmt.Errorf("spool %s: %w", key, err)
		}
		if _, err = tmp.Seek(0, io.SeekStart); err != nil {
			return 0, fmt.Errorf("spool %s: %w", key, err)
		}
		rs = tmp
	}

	if _, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   rs,
	}); err != nil {
		return 0, fmt.Errorf("put object %s: %w", key, err)
	}

	size, err := b.Stat(ctx, key)
	if err != nil {
		b.deleteQuietly(ctx, key)
		return 0, fmt.Errorf("confirm object %s: %w", key, err)
	}

	b.logger.Debug("s3 put object", zap.String("key", key), zap.Int64("size", size))
	return size, nil
}

func (b *Backend) deleteQuietly(ctx context.Context, key string) {
	if err := b.Delete(ctx, key); err != nil {
		b.logger.Warn("s3 cleanup failed", zap.String("key", key), zap.Error(err))
	}
}

func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, 0, fmt.Errorf("get object %s: %w", key, fs.ErrNotExist)
		}
		return nil, 0, fmt.Errorf("get object %s: %w", key, err)
	}

	return out.Body, aws.ToInt64(out.ContentLength), nil
}

func (b *Backend) Stat(ctx context.Context, key string) (int64, error) {
	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("head object %s: %w", key, fs.ErrNotExist)
		}
		return 0, fmt.Errorf("head object %s: %w", key, err)
	}

	return aws.ToInt64(out.ContentLength), nil
}

// Delete succeeds for absent keys; S3 reports no error for them either.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if _, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	b.logger.Debug("s3 delete object", zap.String("key", key))
	return nil
}

func (b *Backend) EnsureDir(context.Context, string) error { return nil }

func (b *Backend) RemoveDirIfEmpty(context.Context, string) error { return nil }
