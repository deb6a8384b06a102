package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/folio/internal/config"
	"go.uber.org/zap"
)

// s3API 是 S3Store 用到的客户端方法子集，便于测试替换。
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store 把上传文件写入 S3 兼容存储（AWS S3、MinIO 等），逻辑桶即 S3 桶。
type S3Store struct {
	client    s3API
	publicURL string
	logger    *zap.Logger
}

// S3Option 是 S3Store 的函数式选项
type S3Option func(*S3Store)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3Store) {
		s.logger = logger
	}
}

// NewS3Store 根据配置创建 S3Store
func NewS3Store(ctx context.Context, cfg config.StorageConfig, opts ...S3Option) (*S3Store, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage access key and secret key are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		if endpoint != "" {
			publicURL = endpoint
		} else {
			publicURL = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
		}
	}

	return newS3Store(client, publicURL, opts...), nil
}

func newS3Store(client s3API, publicURL string, opts ...S3Option) *S3Store {
	store := &S3Store{client: client, publicURL: strings.TrimRight(publicURL, "/"), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Upload 写入对象并返回公开访问 URL
func (s *S3Store) Upload(ctx context.Context, bucket, objectPath string, r io.Reader, contentType string) (string, error) {
	p, err := cleanObjectPath(bucket, objectPath)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(p),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("Failed to upload object", zap.String("bucket", bucket), zap.String("key", p), zap.Error(err))
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Object uploaded", zap.String("bucket", bucket), zap.String("key", p))
	return fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, p), nil
}

// Remove 删除对象
func (s *S3Store) Remove(ctx context.Context, bucket, objectPath string) error {
	p, err := cleanObjectPath(bucket, objectPath)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(p),
	})
	if err != nil {
		s.logger.Error("Failed to delete object", zap.String("bucket", bucket), zap.String("key", p), zap.Error(err))
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
