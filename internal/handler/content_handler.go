package handler

import (
	"errors"
	"net/http"

	"github.com/folio/internal/logger"
	"github.com/folio/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterContentRoutes 注册全部内容编辑接口，路径与 view.Editors() 中的 Endpoint 一一对应。
func (a *API) RegisterContentRoutes(rg *gin.RouterGroup) {
	c := a.content

	registerSection(rg, a, "site-settings", c.SiteSettings)
	registerSection(rg, a, "hero-section", c.Hero)
	registerSection(rg, a, "about-section", c.About)
	registerSection(rg, a, "personal-info", c.PersonalInfo)

	registerCollection(rg, a, "skills", c.Skills)
	registerCollection(rg, a, "tools", c.Tools)
	registerCollection(rg, a, "experiences", c.Experiences)
	registerCollection(rg, a, "products", c.Products)
	registerCollection(rg, a, "projects", c.Projects)
	registerCollection(rg, a, "case-studies", c.CaseStudies)
	registerCollection(rg, a, "education", c.Education)
	registerCollection(rg, a, "certifications", c.Certifications)
	registerCollection(rg, a, "animated-stats", c.Stats)
}

func registerSection[T any, P service.SectionEntry[T]](rg *gin.RouterGroup, a *API, key string, sec *service.Section[T, P]) {
	rg.GET("/"+key, getSection(a, sec))
	rg.PUT("/"+key, saveSection(a, sec))
}

func registerCollection[T any, P service.ListEntry[T]](rg *gin.RouterGroup, a *API, key string, col *service.Collection[T, P]) {
	rg.GET("/"+key, listItems(a, col))
	rg.POST("/"+key, createItem(a, col))
	rg.PUT("/"+key+"/:id", updateItem(a, col))
	rg.DELETE("/"+key+"/:id", deleteItem(a, col))
}

func getSection[T any, P service.SectionEntry[T]](a *API, sec *service.Section[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := sec.Get(c.Request.Context())
		if err != nil {
			a.handleContentError(c, sec.Name(), err)
			return
		}
		if item == nil {
			c.JSON(http.StatusOK, gin.H{"item": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": item})
	}
}

func saveSection[T any, P service.SectionEntry[T]](a *API, sec *service.Section[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload T
		if err := decodeStrict(c.Request.Body, &payload); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		saved, err := sec.Save(c.Request.Context(), payload)
		if err != nil {
			a.handleContentError(c, sec.Name(), err)
			return
		}
		a.loader.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"item": saved})
	}
}

func listItems[T any, P service.ListEntry[T]](a *API, col *service.Collection[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := col.List(c.Request.Context())
		if err != nil {
			a.handleContentError(c, col.Name(), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func createItem[T any, P service.ListEntry[T]](a *API, col *service.Collection[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload T
		order, err := decodeOrdered(c.Request.Body, &payload)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		created, err := col.Create(c.Request.Context(), payload, order)
		if err != nil {
			a.handleContentError(c, col.Name(), err)
			return
		}
		a.loader.Invalidate(c.Request.Context())
		c.JSON(http.StatusCreated, gin.H{"item": created})
	}
}

func updateItem[T any, P service.ListEntry[T]](a *API, col *service.Collection[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseUintParam(c, "id")
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		var payload T
		order, err := decodeOrdered(c.Request.Body, &payload)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := col.Update(c.Request.Context(), id, payload, order)
		if err != nil {
			a.handleContentError(c, col.Name(), err)
			return
		}
		a.loader.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"item": updated})
	}
}

func deleteItem[T any, P service.ListEntry[T]](a *API, col *service.Collection[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseUintParam(c, "id")
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		if err := col.Delete(c.Request.Context(), id); err != nil {
			a.handleContentError(c, col.Name(), err)
			return
		}
		a.loader.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (a *API) handleContentError(c *gin.Context, entity string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, inputMessage(err))
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "Record not found")
	default:
		logger.FromContext(c).Error("Content operation failed", zap.String("entity", entity), zap.Error(err))
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "Operation failed, please try again")
	}
}
