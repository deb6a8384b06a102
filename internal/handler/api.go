package handler

import (
	"time"

	"github.com/folio/internal/auth"
	"github.com/folio/internal/cache"
	"github.com/folio/internal/notify"
	"github.com/folio/internal/service"
	"github.com/folio/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options 汇总构造 API 所需的外部依赖。
type Options struct {
	Tokens         *auth.TokenManager
	Blobs          storage.BlobStore
	PageCache      cache.PageCache
	Notifier       notify.Sender
	ContactTo      string
	BootstrapToken string
	CookieSecure   bool
	Logger         *zap.Logger
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db             *gorm.DB
	content        *service.ContentService
	contact        *service.ContactService
	auth           *service.AuthService
	loader         *service.SiteLoader
	blobs          storage.BlobStore
	bootstrapToken string
	cookieSecure   bool
	log            *zap.Logger
	now            func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	content := service.NewContentService(gdb)
	return &API{
		db:             gdb,
		content:        content,
		contact:        service.NewContactService(gdb, opts.Notifier, opts.ContactTo, log.Named("contact")),
		auth:           service.NewAuthService(gdb, opts.Tokens, log.Named("auth")),
		loader:         service.NewSiteLoader(content, opts.PageCache, log.Named("site")),
		blobs:          opts.Blobs,
		bootstrapToken: opts.BootstrapToken,
		cookieSecure:   opts.CookieSecure,
		log:            log,
		now:            time.Now,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Loader 返回首页内容加载器
func (a *API) Loader() *service.SiteLoader {
	return a.loader
}

// renderHTML 在向模板渲染时附加 CSRF 令牌与当前管理员。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["csrfField"]; !exists {
		payload["csrfField"] = csrf.TemplateField(c.Request)
	}
	if _, exists := payload["csrfToken"]; !exists {
		payload["csrfToken"] = csrf.Token(c.Request)
	}
	if _, exists := payload["admin"]; !exists {
		if user, ok := adminFromContext(c); ok {
			payload["admin"] = user
		}
	}

	c.HTML(status, template, payload)
}
