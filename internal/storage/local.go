package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LocalStore 把上传文件保存在本地目录，由静态路由对外提供访问。
type LocalStore struct {
	root    string
	urlPath string
	logger  *zap.Logger
}

// NewLocalStore 构造 LocalStore，root 为上传根目录，urlPath 为对应的访问前缀。
func NewLocalStore(root, urlPath string, logger *zap.Logger) *LocalStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if urlPath == "" {
		urlPath = "/static/uploads"
	}
	return &LocalStore{root: root, urlPath: urlPath, logger: logger}
}

// Upload 写入文件并返回公开访问 URL
func (s *LocalStore) Upload(ctx context.Context, bucket, objectPath string, r io.Reader, _ string) (string, error) {
	p, err := cleanObjectPath(bucket, objectPath)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.root, bucket, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close upload file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store upload file: %w", err)
	}

	s.logger.Debug("File stored", zap.String("bucket", bucket), zap.String("path", p))
	return fmt.Sprintf("%s/%s/%s", s.urlPath, bucket, p), nil
}

// Remove 删除文件，文件不存在时视为成功
func (s *LocalStore) Remove(_ context.Context, bucket, objectPath string) error {
	p, err := cleanObjectPath(bucket, objectPath)
	if err != nil {
		return err
	}
	target := filepath.Join(s.root, bucket, filepath.FromSlash(p))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}
