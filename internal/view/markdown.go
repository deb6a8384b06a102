package view

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// RenderMarkdown 把 Markdown 转为经过清洗的 HTML。
// 渲染失败时退回到转义后的纯文本。
func RenderMarkdown(content string) template.HTML {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(content) + "</p>")
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
