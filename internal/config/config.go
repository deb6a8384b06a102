package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string
	Port            string
	GinMode         string
	DatabaseDriver  string
	DatabaseDSN     string
	SessionSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CookieSecure    bool
	CSRFKey         string
	BootstrapToken  string
	Storage         StorageConfig
	Redis           RedisConfig
	PageCacheTTL    time.Duration
	Contact         ContactConfig
	Log             LogConfig
}

// StorageConfig 描述上传文件的存储后端。
type StorageConfig struct {
	Driver       string // local, s3
	UploadDir    string
	UploadURL    string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	PublicURL    string
	UsePathStyle bool
}

// RedisConfig 描述首页缓存使用的 Redis 连接；Addr 为空时不启用缓存。
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ContactConfig 描述联系表单通知。
type ContactConfig struct {
	ResendAPIKey string
	From         string
	To           string
}

// LogConfig 对应 zap 日志配置。
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// ErrSessionSecretMissing 在 release 模式下未配置签名密钥时返回。
var ErrSessionSecretMissing = errors.New("SESSION_SECRET is required in release mode")

const devSessionSecret = "folio-dev-secret"

// Load 从可选的配置文件与环境变量读取应用配置，并为缺失项提供默认值。
// configFile 为空时只读取环境变量。
func Load(configFile string) (AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(configFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("read config file: %w", err)
		}
	}

	port := strings.TrimSpace(v.GetString("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(v.GetString("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	dsn := strings.TrimSpace(v.GetString("DATABASE_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(v.GetString("DATABASE_PATH"))
	}

	cfg := AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		GinMode:         strings.TrimSpace(v.GetString("GIN_MODE")),
		DatabaseDriver:  strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
		DatabaseDSN:     dsn,
		SessionSecret:   strings.TrimSpace(v.GetString("SESSION_SECRET")),
		AccessTokenTTL:  v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL: v.GetDuration("REFRESH_TOKEN_TTL"),
		CookieSecure:    v.GetBool("COOKIE_SECURE"),
		CSRFKey:         strings.TrimSpace(v.GetString("CSRF_KEY")),
		BootstrapToken:  strings.TrimSpace(v.GetString("BOOTSTRAP_TOKEN")),
		Storage: StorageConfig{
			Driver:       strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
			UploadDir:    strings.TrimSpace(v.GetString("UPLOAD_DIR")),
			UploadURL:    strings.TrimRight(strings.TrimSpace(v.GetString("UPLOAD_URL_PATH")), "/"),
			Endpoint:     strings.TrimSpace(v.GetString("S3_ENDPOINT")),
			Region:       strings.TrimSpace(v.GetString("S3_REGION")),
			AccessKey:    strings.TrimSpace(v.GetString("S3_ACCESS_KEY")),
			SecretKey:    strings.TrimSpace(v.GetString("S3_SECRET_KEY")),
			PublicURL:    strings.TrimRight(strings.TrimSpace(v.GetString("S3_PUBLIC_URL")), "/"),
			UsePathStyle: v.GetBool("S3_USE_PATH_STYLE"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		PageCacheTTL: v.GetDuration("PAGE_CACHE_TTL"),
		Contact: ContactConfig{
			ResendAPIKey: strings.TrimSpace(v.GetString("RESEND_API_KEY")),
			From:         strings.TrimSpace(v.GetString("CONTACT_FROM")),
			To:           strings.TrimSpace(v.GetString("CONTACT_TO")),
		},
		Log: LogConfig{
			Level:  strings.TrimSpace(v.GetString("LOG_LEVEL")),
			Format: strings.TrimSpace(v.GetString("LOG_FORMAT")),
			Output: strings.TrimSpace(v.GetString("LOG_OUTPUT")),
		},
	}

	if cfg.SessionSecret == "" {
		if cfg.GinMode == "release" {
			return cfg, ErrSessionSecretMissing
		}
		cfg.SessionSecret = devSessionSecret
	}
	if cfg.CSRFKey == "" {
		cfg.CSRFKey = cfg.SessionSecret
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_PATH", "folio.db")
	v.SetDefault("ACCESS_TOKEN_TTL", time.Hour)
	v.SetDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "data/uploads")
	v.SetDefault("UPLOAD_URL_PATH", "/uploads")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_PATH_STYLE", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PAGE_CACHE_TTL", 5*time.Minute)
	v.SetDefault("CONTACT_FROM", "Portfolio <noreply@example.com>")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stdout")
}
