package app

import (
	"net/http"
	"strings"

	"github.com/bluelog/core/internal/middleware"
	"github.com/bluelog/core/internal/modules/admin"
	"github.com/bluelog/core/internal/modules/api"
	"github.com/bluelog/core/internal/modules/auth/auth"
	"github.com/bluelog/core/internal/modules/auth/user"
	"github.com/bluelog/core/internal/modules/blog"
	"github.com/bluelog/core/internal/modules/content/category"
	"github.com/bluelog/core/internal/modules/content/comment"
	"github.com/bluelog/core/internal/modules/content/link"
	"github.com/bluelog/core/internal/modules/content/post"
	"github.com/bluelog/core/internal/modules/syndication/feed"
	"github.com/bluelog/core/internal/modules/syndication/sitemap"
	"github.com/bluelog/core/internal/pkg/response"
	"github.com/bluelog/core/internal/web"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api"

func (a *App) registerRoutes() {
	r := a.router
	site := a.site

	users := user.NewService(a.db)
	posts := post.NewService(a.db)
	comments := comment.NewService(a.db)
	categories := category.NewService(a.db)
	links := link.NewService(a.db)

	r.StaticFS("/static", web.Static())

	// JSON API: read only, no session or CSRF involved.
	apiGroup := r.Group(apiPrefix, apiCORS(a.cfg.AllowedOrigins, a.cfg.IsDev()))
	api.NewHandler(posts, categories, comments, links).RegisterRoutes(apiGroup)

	pages := r.Group("", middleware.OptionalAuth(a.db))
	if a.cfg.CSRFEnabled {
		pages.Use(middleware.CSRF(a.cfg.SecretKey, site.SecureCookies(), func(c *gin.Context, reason error) {
			site.BadRequest(c, reason.Error())
		}))
	}
	loginRequired := middleware.LoginRequired(site.Flashes)

	commentLimit := middleware.RateLimit(a.redis, "comment",
		int64(a.cfg.RateLimit.Max), a.cfg.RateLimit.Window, a.logger,
		func(c *gin.Context) {
			site.Error(c, http.StatusTooManyRequests, "You are commenting too fast, please wait a moment.")
		})

	blog.NewHandler(site, posts, categories, comments, users, a.notify).RegisterRoutes(pages, commentLimit)
	auth.NewHandler(site, users).RegisterRoutes(pages.Group("/auth"), loginRequired)
	admin.NewHandler(site, users, posts, comments, categories, links, admin.NewUploads(a.cfg)).
		RegisterRoutes(pages, loginRequired)
	feed.RegisterRoutes(pages, posts, users, a.cfg)
	sitemap.RegisterRoutes(pages, posts, categories, a.cfg)

	r.NoRoute(middleware.OptionalAuth(a.db), func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, apiPrefix+"/") {
			response.NotFound(c)
			return
		}
		site.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, apiPrefix+"/") {
			c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"ok": 0, "code": http.StatusMethodNotAllowed, "message": "Method Not Allowed"})
			return
		}
		site.Error(c, http.StatusMethodNotAllowed, "The method is not allowed for the requested URL.")
	})
}
