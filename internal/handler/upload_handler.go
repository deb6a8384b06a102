package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/folio/internal/logger"
	"github.com/folio/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type removeUploadRequest struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
}

// UploadFile 处理后台编辑器的文件上传，返回可直接写入内容字段的公开 URL。
// 调用方是已登录的管理员，不限制类型与大小；声明的类型原样交给存储。
func (a *API) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	bucket := strings.TrimSpace(c.DefaultPostForm("bucket", storage.BucketImages))
	if !storage.ValidBucket(bucket) {
		respondError(c, http.StatusBadRequest, "Unknown bucket")
		return
	}

	contentType := file.Header.Get("Content-Type")
	objectPath := storage.ObjectPath(c.PostForm("section"), file.Filename, a.now())

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	defer src.Close()

	url, err := a.blobs.Upload(c.Request.Context(), bucket, objectPath, src, contentType)
	if err != nil {
		a.handleUploadError(c, err)
		return
	}

	payload := gin.H{"url": url, "path": objectPath, "bucket": bucket}
	if bucket == storage.BucketImages {
		if info, ok := probeUploadedImage(file); ok {
			payload["width"] = info.Width
			payload["height"] = info.Height
		}
	}
	c.JSON(http.StatusOK, payload)
}

// DeleteUpload 删除已上传的对象，对象不存在时同样视为成功。
func (a *API) DeleteUpload(c *gin.Context) {
	var req removeUploadRequest
	if err := decodeStrict(c.Request.Body, &req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !storage.ValidBucket(req.Bucket) {
		respondError(c, http.StatusBadRequest, "Unknown bucket")
		return
	}

	if err := a.blobs.Remove(c.Request.Context(), req.Bucket, req.Path); err != nil {
		a.handleUploadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func probeUploadedImage(file *multipart.FileHeader) (storage.ImageInfo, bool) {
	src, err := file.Open()
	if err != nil {
		return storage.ImageInfo{}, false
	}
	defer src.Close()
	return storage.ProbeImage(src)
}

func (a *API) handleUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidBucket):
		respondError(c, http.StatusBadRequest, "Unknown bucket")
	case errors.Is(err, storage.ErrInvalidPath):
		respondError(c, http.StatusBadRequest, "Invalid object path")
	default:
		logger.FromContext(c).Error("Blob store operation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Upload failed, please try again")
	}
}
