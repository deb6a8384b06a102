package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/folio/internal/auth"
	"github.com/folio/internal/cache"
	"github.com/folio/internal/config"
	"github.com/folio/internal/db"
	"github.com/folio/internal/handler"
	"github.com/folio/internal/logger"
	"github.com/folio/internal/notify"
	"github.com/folio/internal/router"
	"github.com/folio/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

// app 持有一次运行所需的全部依赖。
type app struct {
	handler http.Handler
	db      *gorm.DB
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	defer log.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to start", zap.Error(err))
		return err
	}
	defer application.Close()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           application.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newApp 按配置组装存储、缓存、通知与路由；数据库不可用时直接失败。
func newApp(ctx context.Context, cfg config.AppConfig, log *zap.Logger) (*app, error) {
	gdb, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{db: gdb}
	if sqlDB, err := gdb.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	blobs, uploadDir, err := newBlobStore(ctx, cfg.Storage, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	pageCache := newPageCache(ctx, cfg, log)
	if closer, ok := pageCache.(interface{ Close() error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	tokens, err := auth.NewTokenManager(cfg.SessionSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		a.Close()
		return nil, err
	}

	api := handler.NewAPI(gdb, handler.Options{
		Tokens:         tokens,
		Blobs:          blobs,
		PageCache:      pageCache,
		Notifier:       newSender(cfg.Contact, log),
		ContactTo:      cfg.Contact.To,
		BootstrapToken: cfg.BootstrapToken,
		CookieSecure:   cfg.CookieSecure,
		Logger:         log,
	})

	engine := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		CookieSecure:  cfg.CookieSecure,
		UploadDir:     uploadDir,
		UploadURL:     cfg.Storage.UploadURL,
		Logger:        log,
	})
	a.handler = router.CSRF(cfg.CSRFKey, cfg.CookieSecure)(engine)
	return a, nil
}

func openDatabase(cfg config.AppConfig) (*gorm.DB, error) {
	gdb, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return gdb, nil
}

// newBlobStore 返回上传存储；本地存储时同时返回需要由本进程提供的目录。
func newBlobStore(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (storage.BlobStore, string, error) {
	switch cfg.Driver {
	case "", "local":
		return storage.NewLocalStore(cfg.UploadDir, cfg.UploadURL, log.Named("storage")), cfg.UploadDir, nil
	case "s3":
		store, err := storage.NewS3Store(ctx, cfg, storage.WithLogger(log.Named("storage")))
		if err != nil {
			return nil, "", fmt.Errorf("init s3 storage: %w", err)
		}
		return store, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// newPageCache 优先使用 Redis；连接失败时退回进程内缓存。
func newPageCache(ctx context.Context, cfg config.AppConfig, log *zap.Logger) cache.PageCache {
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisPageCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.PageCacheTTL, log.Named("cache"))
		if err == nil {
			return redisCache
		}
		log.Warn("Redis unavailable, using in-memory page cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	return cache.NewMemoryPageCache(cfg.PageCacheTTL)
}

func newSender(cfg config.ContactConfig, log *zap.Logger) notify.Sender {
	if cfg.ResendAPIKey == "" || cfg.To == "" {
		return notify.NewNoopSender(log.Named("notify"))
	}
	return notify.NewResendSender(cfg.ResendAPIKey, cfg.From, log.Named("notify"))
}
