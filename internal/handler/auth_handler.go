package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/folio/internal/auth"
	"github.com/folio/internal/logger"
	"github.com/folio/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	accessCookieName  = "folio-access-token"
	refreshCookieName = "folio-refresh-token"
	adminContextKey   = "__admin_user"

	loginPath      = "/superadmin/login"
	dashboardPath  = "/superadmin"
	adminAPIPrefix = "/superadmin/api"

	bootstrapHeader = "X-Bootstrap-Token"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Login 校验邮箱密码并写入会话 Cookie；失败时不设置任何 Cookie。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := a.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		a.handleAuthError(c, err)
		return
	}

	a.setAuthCookies(c, result.Tokens)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": result.User})
}

// Logout 撤销当前会话并清除 Cookie
func (a *API) Logout(c *gin.Context) {
	access, _ := c.Cookie(accessCookieName)
	refresh, _ := c.Cookie(refreshCookieName)

	if err := a.auth.Logout(c.Request.Context(), access, refresh); err != nil {
		logger.FromContext(c).Error("Logout failed", zap.Error(err))
		a.clearAuthCookies(c)
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	a.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session 返回当前登录的管理员，未登录时 user 为 null。
func (a *API) Session(c *gin.Context) {
	user, ok := a.currentAdmin(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateAdmin 创建管理员账号。
// 尚无管理员时任何人都可以调用；之后需要已登录的管理员或正确的引导令牌。
func (a *API) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, "Email, password, and name are required")
		return
	}

	ctx := c.Request.Context()
	authorized := a.bootstrapAllowed(c)
	if !authorized {
		_, authorized = a.currentAdmin(c)
	}

	id, err := a.auth.CreateAdmin(ctx, service.CreateAdminInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		FirstOnly: !authorized,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSetupClosed):
			respondError(c, http.StatusForbidden, "Access denied")
		case errors.Is(err, service.ErrAdminExists):
			respondError(c, http.StatusConflict, "Admin user already exists")
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, inputMessage(err))
		default:
			logger.FromContext(c).Error("Failed to create admin", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "Failed to create admin user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin user created successfully",
		"userId":  id,
	})
}

// ShowLoginPage 渲染登录页面，已登录时直接进入后台。
func (a *API) ShowLoginPage(c *gin.Context) {
	if _, ok := a.currentAdmin(c); ok {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	hasAdmins, err := a.auth.HasAdmins(c.Request.Context())
	if err != nil {
		logger.FromContext(c).Warn("Failed to count admins", zap.Error(err))
	}
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title":     "Admin Login",
		"setupOpen": err == nil && !hasAdmins,
	})
}

// RequireAdmin 保护 /superadmin 下除登录页以外的全部路径。
// 页面请求跳转到登录页，API 请求返回 401。
func (a *API) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == loginPath {
			c.Next()
			return
		}

		user, ok := a.currentAdmin(c)
		if !ok {
			a.denyAdmin(c)
			return
		}
		c.Set(adminContextKey, user)
		c.Next()
	}
}

// NotFound 处理未匹配的路由；/superadmin 下的未知路径同样需要先登录。
func (a *API) NotFound(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, dashboardPath+"/") && path != loginPath {
		if _, ok := a.currentAdmin(c); !ok {
			a.denyAdmin(c)
			return
		}
	}
	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, adminAPIPrefix+"/") {
		respondError(c, http.StatusNotFound, "Not found")
		return
	}
	c.String(http.StatusNotFound, "404 page not found")
}

func (a *API) denyAdmin(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, adminAPIPrefix) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Redirect(http.StatusFound, loginPath)
	c.Abort()
}

// currentAdmin 从 Cookie 恢复管理员；访问令牌被续签时顺带写回新的 Cookie。
func (a *API) currentAdmin(c *gin.Context) (service.AdminUser, bool) {
	if user, ok := adminFromContext(c); ok {
		return user, true
	}

	access, _ := c.Cookie(accessCookieName)
	refresh, _ := c.Cookie(refreshCookieName)
	if access == "" && refresh == "" {
		return service.AdminUser{}, false
	}

	resolved, err := a.auth.Resolve(c.Request.Context(), access, refresh)
	if err != nil {
		if !errors.Is(err, service.ErrUnauthenticated) {
			logger.FromContext(c).Warn("Session check failed", zap.Error(err))
		}
		return service.AdminUser{}, false
	}

	if resolved.RenewedAccess != "" {
		a.setCookie(c, accessCookieName, resolved.RenewedAccess, int(a.auth.Tokens().AccessTTL().Seconds()))
	}
	c.Set(adminContextKey, resolved.User)
	return resolved.User, true
}

func adminFromContext(c *gin.Context) (service.AdminUser, bool) {
	if value, exists := c.Get(adminContextKey); exists {
		if user, ok := value.(service.AdminUser); ok {
			return user, true
		}
	}
	return service.AdminUser{}, false
}

func (a *API) bootstrapAllowed(c *gin.Context) bool {
	if a.bootstrapToken == "" {
		return false
	}
	provided := c.GetHeader(bootstrapHeader)
	return subtle.ConstantTimeCompare([]byte(provided), []byte(a.bootstrapToken)) == 1
}

func (a *API) setAuthCookies(c *gin.Context, pair *auth.TokenPair) {
	tokens := a.auth.Tokens()
	a.setCookie(c, accessCookieName, pair.AccessToken, int(tokens.AccessTTL().Seconds()))
	a.setCookie(c, refreshCookieName, pair.RefreshToken, int(tokens.RefreshTTL().Seconds()))
}

func (a *API) clearAuthCookies(c *gin.Context) {
	a.setCookie(c, accessCookieName, "", -1)
	a.setCookie(c, refreshCookieName, "", -1)
}

func (a *API) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", a.cookieSecure, true)
}

func (a *API) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAccessDenied):
		respondError(c, http.StatusForbidden, "Access denied")
	default:
		logger.FromContext(c).Error("Login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// inputMessage 去掉 ErrInvalidInput 前缀，只保留面向用户的说明。
func inputMessage(err error) string {
	return strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")
}
