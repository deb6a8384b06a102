package handler

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/folio/internal/logger"
	"github.com/folio/internal/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShowDashboard 渲染后台主面板，每个编辑器一个标签页。
func (a *API) ShowDashboard(c *gin.Context) {
	editors := view.Editors()
	schema, err := json.Marshal(editors)
	if err != nil {
		logger.FromContext(c).Error("Failed to encode editor schema", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	unread, err := a.contact.UnreadCount(c.Request.Context())
	if err != nil {
		logger.FromContext(c).Warn("Failed to count unread messages", zap.Error(err))
	}

	a.renderHTML(c, http.StatusOK, "dashboard.html", gin.H{
		"title":   "Portfolio Admin",
		"editors": editors,
		"schema":  template.JS(schema),
		"unread":  unread,
	})
}
