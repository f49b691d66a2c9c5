package service

import (
	"context"
	"fmt"
	"io"
	"lxp_backend/internal/config"
	"lxp_backend/internal/util"
	"lxp_backend/pkg/logger"
	"os"
	"path/filepath"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// AttachmentStore 内容附件的对象存储
type AttachmentStore interface {
	PutFile(ctx context.Context, key, localPath, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// LocalStore 本地磁盘，由 /uploads 静态路由对外提供
type LocalStore struct {
	Root string
}

func (p *LocalStore) PutFile(ctx context.Context, key, localPath, contentType string) (string, error) {
	dst := filepath.Join(p.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return "/uploads/" + key, nil
}

func (p *LocalStore) Delete(ctx context.Context, key string) error {
	return os.Remove(filepath.Join(p.Root, filepath.FromSlash(key)))
}

type MinioStore struct {
	Bucket string
	Client *minio.Client
}

func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinioStore{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioStore) PutFile(ctx context.Context, key, localPath, contentType string) (string, error) {
	_, err := p.Client.FPutObject(ctx, p.Bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return "/" + p.Bucket + "/" + key, nil
}

func (p *MinioStore) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, key, minio.RemoveObjectOptions{})
}

// OSSStore 阿里云 OSS
type OSSStore struct {
	Endpoint string
	Bucket   *oss.Bucket
}

func NewOSSStore(cfg *config.StorageConfig) (*OSSStore, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStore{Endpoint: cfg.OSSEndpoint, Bucket: bucket}, nil
}

func (p *OSSStore) PutFile(ctx context.Context, key, localPath, contentType string) (string, error) {
	if err := p.Bucket.PutObjectFromFile(key, localPath, oss.ContentType(contentType)); err != nil {
		return "", err
	}
	host := strings.TrimPrefix(strings.TrimPrefix(p.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", p.Bucket.BucketName, host, key), nil
}

func (p *OSSStore) Delete(ctx context.Context, key string) error {
	return p.Bucket.DeleteObject(key)
}

// NewAttachmentStore 按配置选择存储，远端初始化失败时退回本地磁盘
func NewAttachmentStore(cfg *config.StorageConfig) AttachmentStore {
	switch cfg.Type {
	case util.StorageMinio:
		p, err := NewMinioStore(cfg)
		if err == nil {
			return p
		}
		logger.Log.Warn("MinIO unavailable, using local storage", zap.Error(err))
	case util.StorageOSS:
		p, err := NewOSSStore(cfg)
		if err == nil {
			return p
		}
		logger.Log.Warn("OSS unavailable, using local storage", zap.Error(err))
	}
	return &LocalStore{Root: cfg.LocalPath}
}

// attachmentKey contents/<content_id>/<uuid><ext>
func attachmentKey(contentID uint, filename string) string {
	return fmt.Sprintf("contents/%d/%s%s", contentID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
}
