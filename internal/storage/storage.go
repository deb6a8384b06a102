// Package storage 提供上传文件的对象存储实现。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"
)

// 逻辑桶名称，对应图片、文档与视频三类上传。
const (
	BucketImages    = "images"
	BucketDocuments = "documents"
	BucketVideos    = "videos"
)

var (
	// ErrInvalidBucket 在桶名不在允许列表中时返回
	ErrInvalidBucket = errors.New("invalid bucket")
	// ErrInvalidPath 在对象路径为空或试图越出桶目录时返回
	ErrInvalidPath = errors.New("invalid object path")
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// BlobStore 是上传文件的存储后端。同一路径重复上传会覆盖旧对象。
type BlobStore interface {
	Upload(ctx context.Context, bucket, objectPath string, r io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, bucket, objectPath string) error
}

// ValidBucket 判断桶名是否可用
func ValidBucket(bucket string) bool {
	switch bucket {
	case BucketImages, BucketDocuments, BucketVideos:
		return true
	default:
		return false
	}
}

// ObjectPath 生成 section/<毫秒时间戳>-<文件名> 形式的对象路径。
func ObjectPath(section, filename string, now time.Time) string {
	section = sanitizeSegment(section)
	if section == "" {
		section = "misc"
	}
	name := sanitizeSegment(path.Base(strings.ReplaceAll(filename, "\\", "/")))
	if name == "" || name == "." {
		name = "file"
	}
	return fmt.Sprintf("%s/%d-%s", section, now.UnixMilli(), name)
}

// cleanObjectPath 校验并规范化对象路径，拒绝绝对路径与 ".." 片段。
func cleanObjectPath(bucket, objectPath string) (string, error) {
	if !ValidBucket(bucket) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBucket, bucket)
	}
	p := strings.TrimSpace(objectPath)
	if p == "" || strings.HasPrefix(p, "/") {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", ErrInvalidPath
		}
	}
	return p, nil
}

func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = unsafeNameChars.ReplaceAllString(s, "")
	return strings.Trim(s, ".")
}
