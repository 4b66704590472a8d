package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bluelog/core/internal/config"
	"github.com/bluelog/core/internal/middleware"
	"github.com/bluelog/core/internal/modules/auth/user"
	"github.com/bluelog/core/internal/modules/content/category"
	"github.com/bluelog/core/internal/modules/content/comment"
	"github.com/bluelog/core/internal/modules/content/link"
	"github.com/bluelog/core/internal/pkg/flash"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ThemeCookie = "theme"
	themeMaxAge = 30 * 24 * time.Hour
)

// Site carries what every page handler needs: config, flashes and the data
// shown around each page.
type Site struct {
	Cfg      *config.AppConfig
	Flashes  *flash.Store
	Renderer *Renderer
	Log      *zap.Logger

	users      *user.Service
	categories *category.Service
	links      *link.Service
	comments   *comment.Service
}

func NewSite(db *gorm.DB, cfg *config.AppConfig, renderer *Renderer, flashes *flash.Store, log *zap.Logger) *Site {
	return &Site{
		Cfg:        cfg,
		Flashes:    flashes,
		Renderer:   renderer,
		Log:        log,
		users:      user.NewService(db),
		categories: category.NewService(db),
		links:      link.NewService(db),
		comments:   comment.NewService(db),
	}
}

// HTML renders page inside the layout with the shared context merged into data.
func (s *Site) HTML(c *gin.Context, status int, page string, data gin.H) {
	ctx := s.common(c)
	for k, v := range data {
		ctx[k] = v
	}
	c.HTML(status, page, ctx)
}

func (s *Site) common(c *gin.Context) gin.H {
	ctx := gin.H{
		"logged_in":       middleware.IsAuthenticated(c),
		"theme":           s.Theme(c),
		"themes":          s.Cfg.Blog.Themes,
		"flashes":         s.Flashes.Pop(c),
		"csrf_field":      csrf.TemplateField(c.Request),
		"csrf_token":      csrf.Token(c.Request),
		"path":            c.Request.URL.Path,
		"unread_comments": nil,
		"errors":          nil,
	}

	admin, err := s.users.GetOwner()
	if err != nil {
		s.Log.Error("load admin", zap.Error(err))
	}
	ctx["admin"] = admin

	if categories, err := s.categories.ListWithCounts(); err != nil {
		s.Log.Error("load categories", zap.Error(err))
	} else {
		ctx["categories"] = categories
	}
	if links, err := s.links.List(); err != nil {
		s.Log.Error("load links", zap.Error(err))
	} else {
		ctx["links"] = links
	}
	if middleware.IsAuthenticated(c) {
		if n, err := s.comments.UnreadCount(); err == nil {
			ctx["unread_comments"] = n
		}
	}
	return ctx
}

// Flash queues a message for the next page.
func (s *Site) Flash(c *gin.Context, category, text string) {
	s.Flashes.Add(c, category, text)
}

// Error renders errors/<status>.html and aborts. Statuses without a page use
// the 500 page.
func (s *Site) Error(c *gin.Context, status int, description string) {
	page := fmt.Sprintf("errors/%d.html", status)
	if !s.Renderer.Has(page) {
		page = "errors/500.html"
	}
	s.HTML(c, status, page, gin.H{
		"code":        status,
		"title":       http.StatusText(status),
		"description": description,
	})
	c.Abort()
}

func (s *Site) NotFound(c *gin.Context) {
	s.Error(c, http.StatusNotFound, "Sorry, we can't find that page.")
}

func (s *Site) BadRequest(c *gin.Context, description string) {
	s.Error(c, http.StatusBadRequest, description)
}

// ServerError logs err and renders the 500 page.
func (s *Site) ServerError(c *gin.Context, err error) {
	_ = c.Error(err)
	s.Log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	s.Error(c, http.StatusInternalServerError, "Something went wrong on our side.")
}

// Theme returns the theme chosen by the visitor, or the default one.
func (s *Site) Theme(c *gin.Context) string {
	if key, err := c.Cookie(ThemeCookie); err == nil {
		if _, ok := s.Cfg.ThemeName(key); ok {
			return key
		}
	}
	return s.Cfg.DefaultTheme()
}

// SetTheme remembers key for a month.
func (s *Site) SetTheme(c *gin.Context, key string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ThemeCookie, key, int(themeMaxAge/time.Second), "/", "", s.SecureCookies(), true)
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (s *Site) SecureCookies() bool {
	return strings.HasPrefix(s.Cfg.BaseURL, "https://")
}

// RedirectBack redirects to ?next, then the Referer, then fallback. Only
// targets on the current host are followed.
func (s *Site) RedirectBack(c *gin.Context, fallback string) {
	for _, target := range []string{c.Query("next"), c.PostForm("next"), c.GetHeader("Referer")} {
		if target == "" {
			continue
		}
		if safe, ok := SafeURL(c.Request, target); ok {
			c.Redirect(http.StatusFound, safe)
			return
		}
	}
	c.Redirect(http.StatusFound, fallback)
}

// SafeURL resolves target against the request and returns its path and query
// when it stays on the same host over http(s).
func SafeURL(r *http.Request, target string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return "", false
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	base := &url.URL{Scheme: scheme, Host: r.Host, Path: "/"}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	if resolved.Host != r.Host {
		return "", false
	}
	return resolved.RequestURI(), true
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
