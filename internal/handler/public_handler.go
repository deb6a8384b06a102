package handler

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/folio/internal/logger"
	"github.com/folio/internal/service"
	"github.com/folio/internal/view"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contactFlashKey = "contact_result"

// homeView 是首页模板使用的数据，所有回退都已在此处理好。
type homeView struct {
	Page            service.PageData
	Title           string
	Heading         string
	SubHeading      string
	Description     string
	ProfileImageURL string
	ProfileAlt      string
	CTAText         string
	CTAURL          string
	ShowCTA         bool
	AboutTitle      string
	AboutHTML       template.HTML
	Contacts        []view.ContactLink
	FooterName      string
}

// contactState 描述联系表单当前的回显内容。
type contactState struct {
	Form   service.ContactForm
	Errors map[string]string
	Result *service.ContactResult
}

type contactFlash struct {
	Result service.ContactResult `json:"result"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func buildHomeView(page service.PageData, placeholders view.Placeholders) homeView {
	hero, info, about := page.Hero, page.PersonalInfo, page.About

	resumeURL := firstNonEmpty(info.ResumeURL, hero.CTAButtonURL)
	v := homeView{
		Page:            page,
		Title:           firstNonEmpty(page.SiteSettings.SiteTitle, "Portfolio"),
		Heading:         firstNonEmpty(hero.MainHeading, info.Name, placeholders.Name),
		SubHeading:      firstNonEmpty(hero.SubHeading, info.Title, placeholders.Title),
		Description:     firstNonEmpty(hero.Description, info.Description, placeholders.Description),
		ProfileImageURL: firstNonEmpty(hero.ProfileImageURL, info.ProfileImageURL, placeholders.ProfileImageURL),
		ProfileAlt:      firstNonEmpty(info.Name, "Profile") + " - " + firstNonEmpty(info.Title, "Professional"),
		CTAText:         firstNonEmpty(hero.CTAButtonText, placeholders.CTAButtonText),
		CTAURL:          resumeURL,
		ShowCTA:         strings.TrimSpace(hero.CTAButtonText) != "" || strings.TrimSpace(info.ResumeURL) != "",
		AboutTitle:      firstNonEmpty(about.SectionTitle, "About Me"),
		AboutHTML:       view.RenderMarkdown(about.MainContent),
		Contacts:        view.ContactLinks(info),
		FooterName:      firstNonEmpty(info.Name, "Professional"),
	}
	return v
}

// ShowHome 渲染首页；联系表单的提交结果通过会话闪存带回。
func (a *API) ShowHome(c *gin.Context) {
	state := contactState{}
	if flash, ok := a.popContactFlash(c); ok {
		state.Result = &flash.Result
	}
	a.renderHome(c, http.StatusOK, state)
}

// Portfolio 以 JSON 返回首页内容
func (a *API) Portfolio(c *gin.Context) {
	c.JSON(http.StatusOK, a.loader.Load(c.Request.Context()))
}

// SubmitContactForm 处理首页联系表单：
// 表单规则不通过或提交失败时原地回显，保留填写内容；成功后经闪存重定向回联系区块。
func (a *API) SubmitContactForm(c *gin.Context) {
	var form service.ContactForm
	if err := c.ShouldBind(&form); err != nil {
		logger.FromContext(c).Debug("Contact form bind failed", zap.Error(err))
	}

	if errs := service.ValidateContactForm(form); len(errs) > 0 {
		a.renderHome(c, http.StatusUnprocessableEntity, contactState{Form: form, Errors: errs})
		return
	}

	result := a.contact.Submit(c.Request.Context(), form)
	if !result.Success {
		// 表单可能超出 cookie 容量，失败结果不走闪存
		a.renderHome(c, http.StatusOK, contactState{Form: form, Result: &result})
		return
	}
	a.pushContactFlash(c, contactFlash{Result: result})
	c.Redirect(http.StatusSeeOther, "/#contact")
}

// SubmitContactJSON 是联系表单的 JSON 版本
func (a *API) SubmitContactJSON(c *gin.Context) {
	var form service.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := service.ValidateContactForm(form); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Please correct the highlighted fields.",
			"errors":  errs,
		})
		return
	}

	c.JSON(http.StatusOK, a.contact.Submit(c.Request.Context(), form))
}

func (a *API) renderHome(c *gin.Context, status int, state contactState) {
	page := a.loader.Load(c.Request.Context())
	home := buildHomeView(page, a.loader.Defaults().Placeholders)
	if state.Errors == nil {
		state.Errors = map[string]string{}
	}

	a.renderHTML(c, status, "index.html", gin.H{
		"title":   home.Title,
		"home":    home,
		"contact": state,
	})
}

func (a *API) pushContactFlash(c *gin.Context, flash contactFlash) {
	raw, err := json.Marshal(flash)
	if err != nil {
		logger.FromContext(c).Error("Failed to encode contact flash", zap.Error(err))
		return
	}
	session := sessions.Default(c)
	session.AddFlash(string(raw), contactFlashKey)
	if err := session.Save(); err != nil {
		logger.FromContext(c).Error("Failed to save contact flash", zap.Error(err))
	}
}

func (a *API) popContactFlash(c *gin.Context) (contactFlash, bool) {
	session := sessions.Default(c)
	flashes := session.Flashes(contactFlashKey)
	if len(flashes) == 0 {
		return contactFlash{}, false
	}
	if err := session.Save(); err != nil {
		logger.FromContext(c).Warn("Failed to clear contact flash", zap.Error(err))
	}

	raw, ok := flashes[len(flashes)-1].(string)
	if !ok {
		return contactFlash{}, false
	}
	var flash contactFlash
	if err := json.Unmarshal([]byte(raw), &flash); err != nil {
		return contactFlash{}, false
	}
	return flash, true
}
