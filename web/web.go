// Package web 内嵌页面模板与静态资源，服务端无需随二进制分发额外文件。
package web

import "embed"

// Templates 包含 template/ 下的全部 HTML 模板。
//
//go:embed template/*.html
var Templates embed.FS

// Static 包含 static/ 下的样式、脚本与图片。
//
//go:embed static
var Static embed.FS
