package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bluelog/core/internal/config"
	"github.com/bluelog/core/internal/database"
	"github.com/bluelog/core/internal/middleware"
	"github.com/bluelog/core/internal/modules/notify"
	pkgcron "github.com/bluelog/core/internal/pkg/cron"
	"github.com/bluelog/core/internal/pkg/flash"
	pkgmail "github.com/bluelog/core/internal/pkg/mail"
	pkgredis "github.com/bluelog/core/internal/pkg/redis"
	"github.com/bluelog/core/internal/web"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	redis  *pkgredis.Client
	site   *web.Site
	notify *notify.Service
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// New initializes the application: config → DB → Redis → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, logger, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		if rc, err = pkgredis.Connect(cfg.RedisURL); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("redis: %w", err)
		}
	} else {
		logger.Info("redis url is empty, comment rate limit disabled")
	}

	sender := pkgmail.New(pkgmail.FromAppConfig(cfg.Mail))
	return build(logger, cfg, db, rc, sender)
}

// build wires the router around already opened connections.
func build(logger *zap.Logger, cfg *config.AppConfig, db *gorm.DB, rc *pkgredis.Client, mailer notify.Mailer) (*App, error) {
	switch {
	case cfg.IsDev():
		gin.SetMode(gin.DebugMode)
	case cfg.IsTesting():
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	flashes := flash.NewStore(cfg.SecretKey, strings.HasPrefix(cfg.BaseURL, "https://"))
	site := web.NewSite(db, cfg, renderer, flashes, logger)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.HTMLRender = renderer
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		site.ServerError(c, fmt.Errorf("panic: %v", recovered))
	}))
	router.Use(middleware.Logger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	sched := pkgcron.New(logger)
	registerCronJobs(sched, db, logger)
	if !cfg.IsTesting() {
		sched.Start(ctx)
	}

	app := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		redis:  rc,
		site:   site,
		notify: notify.New(mailer, cfg.AdminEmail, cfg.BaseURL, logger),
		logger: logger,
		cancel: cancel,
		sched:  sched,
	}
	app.registerRoutes()
	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs, waits for pending mail and closes connections.
func (a *App) Shutdown() {
	a.cancel()
	a.sched.Wait()

	done := make(chan struct{})
	go func() {
		a.notify.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		a.logger.Warn("pending mail dropped on shutdown")
	}

	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}
