package storage

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

// ImageInfo 是图片的尺寸与格式
type ImageInfo struct {
	Width  int
	Height int
	Format string
}

// ProbeImage 读取图片头部获取尺寸，不解码像素。
// 无法识别的格式返回 ok=false，调用方不据此拒绝上传。
func ProbeImage(r io.Reader) (ImageInfo, bool) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return ImageInfo{}, false
	}
	return ImageInfo{Width: cfg.Width, Height: cfg.Height, Format: format}, true
}
