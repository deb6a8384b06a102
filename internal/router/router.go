package router

import (
	"crypto/sha256"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/folio/internal/handler"
	"github.com/folio/internal/logger"
	"github.com/folio/internal/view"
	"github.com/folio/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

const sessionName = "folio_session"

// Options 描述路由层需要的配置。
type Options struct {
	SessionSecret string
	CookieSecure  bool
	// UploadDir 非空时由本进程直接提供已上传文件（本地存储）。
	UploadDir string
	UploadURL string
	Logger    *zap.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(logger.GinMiddleware(log), logger.Recovery(log))

	// 配置会话中间件，仅用于联系表单的闪存消息
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 加载模板并添加自定义函数
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(funcMap()).ParseFS(web.Templates, "template/*.html")))

	// 静态文件服务
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))
	if opts.UploadDir != "" {
		uploadURL := strings.TrimRight(opts.UploadURL, "/")
		if uploadURL == "" {
			uploadURL = "/uploads"
		}
		r.Static(uploadURL, opts.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// 前台路由
	r.GET("/", api.ShowHome)
	r.POST("/contact", api.SubmitContactForm)

	publicAPI := r.Group("/api")
	{
		publicAPI.GET("/portfolio", api.Portfolio)
		publicAPI.POST("/contact", api.SubmitContactJSON)

		authAPI := publicAPI.Group("/auth")
		authAPI.POST("/login", api.Login)
		authAPI.POST("/logout", api.Logout)
		authAPI.GET("/session", api.Session)
		authAPI.POST("/create-admin", api.CreateAdmin)
	}

	// 后台管理路由
	admin := r.Group("/superadmin")
	admin.Use(api.RequireAdmin())
	{
		admin.GET("", api.ShowDashboard)
		admin.GET("/login", api.ShowLoginPage)

		adminAPI := admin.Group("/api")
		{
			api.RegisterContentRoutes(adminAPI)

			adminAPI.GET("/contact-messages", api.ListMessages)
			adminAPI.PUT("/contact-messages/:id/status", api.UpdateMessageStatus)
			adminAPI.DELETE("/contact-messages/:id", api.DeleteMessage)

			adminAPI.POST("/uploads", api.UploadFile)
			adminAPI.DELETE("/uploads", api.DeleteUpload)
		}
	}

	r.NoRoute(api.NotFound)
	return r
}

// CSRF 为表单提交加上 gorilla/csrf 校验；JSON 请求依赖 SameSite Cookie，不做令牌校验。
// 后台脚本的 multipart 上传通过 X-CSRF-Token 头携带令牌。
func CSRF(key string, secure bool) func(http.Handler) http.Handler {
	sum := sha256.Sum256([]byte(key))
	protect := csrf.Protect(
		sum[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
		csrf.CookieName("folio_csrf"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				next.ServeHTTP(w, r)
				return
			}
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"markdown": view.RenderMarkdown,
		"join":     strings.Join,
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
		"safeCSS": func(s string) template.CSS {
			return template.CSS(s)
		},
		// opacity 把 0-100 的百分比转换为 CSS 的 0-1 取值
		"opacity": func(percent int) string {
			return strconv.FormatFloat(float64(min(max(percent, 0), 100))/100, 'f', -1, 64)
		},
	}
}
