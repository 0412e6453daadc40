// Package storage 图书封面的对象存储(MinIO / S3兼容)
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
)

// CoverStore 封面存储
type CoverStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewCoverStore 创建MinIO客户端并确保bucket存在
func NewCoverStore(ctx context.Context, cfg config.StorageConfig) (*CoverStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage.endpoint不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	s := &CoverStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// EnsureBucket bucket不存在时创建
func (s *CoverStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("检查bucket失败: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("创建bucket失败: %w", err)
	}
	logger.L().Info("已创建封面bucket", "bucket", s.bucket)
	return nil
}

// Put 上传对象，返回可公开访问的URL
func (s *CoverStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("上传%s失败: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// publicBaseURL 优先使用配置的公开地址(CDN、反向代理)，否则为 scheme://endpoint/bucket
func publicBaseURL(cfg config.StorageConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}
