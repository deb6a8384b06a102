package handler

import (
	"errors"
	"net/http"

	"github.com/folio/internal/logger"
	"github.com/folio/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type messageStatusRequest struct {
	Status string `json:"status"`
}

// ListMessages 返回留言列表与未读数量，可按 status 过滤。
func (a *API) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := a.contact.ListMessages(ctx, c.Query("status"))
	if err != nil {
		a.handleMessageError(c, err)
		return
	}
	unread, err := a.contact.UnreadCount(ctx)
	if err != nil {
		a.handleMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "unread": unread})
}

// UpdateMessageStatus 修改留言处理状态
func (a *API) UpdateMessageStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req messageStatusRequest
	if err := decodeStrict(c.Request.Body, &req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := a.contact.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		a.handleMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": msg})
}

// DeleteMessage 删除留言
func (a *API) DeleteMessage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.contact.DeleteMessage(c.Request.Context(), id); err != nil {
		a.handleMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) handleMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, inputMessage(err))
	case errors.Is(err, service.ErrMessageNotFound):
		respondError(c, http.StatusNotFound, "Message not found")
	default:
		logger.FromContext(c).Error("Contact message operation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Operation failed, please try again")
	}
}
