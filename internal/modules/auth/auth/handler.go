package auth

import (
	"errors"
	"net/http"

	"github.com/bluelog/core/internal/middleware"
	"github.com/bluelog/core/internal/modules/auth/user"
	"github.com/bluelog/core/internal/pkg/flash"
	"github.com/bluelog/core/internal/pkg/forms"
	"github.com/bluelog/core/internal/web"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	site  *web.Site
	users *user.Service
}

func NewHandler(site *web.Site, users *user.Service) *Handler {
	return &Handler{site: site, users: users}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/login", h.loginPage)
	rg.POST("/login", h.login)
	rg.GET("/logout", authMW, h.logout)
}

// GET /auth/login
func (h *Handler) loginPage(c *gin.Context) {
	if middleware.IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.renderLogin(c, &user.LoginForm{}, nil)
}

func (h *Handler) renderLogin(c *gin.Context, form *user.LoginForm, errs forms.Errors) {
	next := ""
	if safe, ok := web.SafeURL(c.Request, c.Query("next")); ok && c.Query("next") != "" {
		next = safe
	}
	h.site.HTML(c, http.StatusOK, "auth/login.html", gin.H{
		"form":   form,
		"errors": errs,
		"next":   next,
	})
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	if middleware.IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form user.LoginForm
	if errs := forms.Bind(c, &form); errs != nil {
		h.renderLogin(c, &form, errs)
		return
	}

	token, ttl, err := h.users.Login(form.Username, form.Password, form.Remember, c.ClientIP(), c.Request.UserAgent())
	switch {
	case errors.Is(err, user.ErrNoAccount):
		h.site.Flash(c, flash.Warning, "No account.")
		c.Redirect(http.StatusFound, c.Request.URL.RequestURI())
		return
	case errors.Is(err, user.ErrInvalidCredentials):
		h.site.Log.Info("login failed", zap.String("username", form.Username), zap.String("ip", c.ClientIP()))
		h.site.Flash(c, flash.Warning, "Invalid username or password.")
		c.Redirect(http.StatusFound, c.Request.URL.RequestURI())
		return
	case err != nil:
		h.site.ServerError(c, err)
		return
	}

	middleware.SetTokenCookie(c, token, ttl, h.site.SecureCookies())
	h.site.Flash(c, flash.Info, "Welcome back.")
	h.site.RedirectBack(c, "/")
}

// GET /auth/logout
func (h *Handler) logout(c *gin.Context) {
	if err := h.users.Logout(middleware.CurrentAdminID(c), middleware.CurrentSessionID(c)); err != nil {
		h.site.ServerError(c, err)
		return
	}
	middleware.ClearTokenCookie(c, h.site.SecureCookies())
	h.site.Flash(c, flash.Info, "Logout success.")
	h.site.RedirectBack(c, "/")
}
