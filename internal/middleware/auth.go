package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bluelog/core/internal/pkg/flash"
	"github.com/bluelog/core/internal/pkg/jwt"
	sessionpkg "github.com/bluelog/core/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	ContextKeyAdminID = "admin_id"
	ContextKeySID     = "session_id"

	// TokenCookie carries the signed login token.
	TokenCookie = "bluelog_token"

	loginPath    = "/auth/login"
	loginMessage = "Please log in to access this page."
)

// OptionalAuth sets the admin ID if a valid token is present, but does not block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, adminID, err := ValidateToken(db, extractToken(c)); err == nil {
			c.Set(ContextKeyAdminID, adminID)
			c.Set(ContextKeySID, claims.SessionID)
			sessionpkg.Touch(db, adminID, claims.SessionID)
		}
		c.Next()
	}
}

// LoginRequired sends anonymous visitors to the login page with a warning.
// It must run after OptionalAuth.
func LoginRequired(flashes *flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}
		flashes.Add(c, flash.Warning, loginMessage)
		c.Redirect(http.StatusFound, loginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// ValidateToken parses a login token and checks that its session is still active.
func ValidateToken(db *gorm.DB, rawToken string) (*jwt.Claims, uint, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, 0, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, 0, err
	}
	adminID, err := claims.AdminID()
	if err != nil {
		return nil, 0, err
	}
	active, err := sessionpkg.IsActive(db, adminID, claims.SessionID)
	if err != nil {
		return nil, 0, err
	}
	if !active {
		return nil, 0, errors.New("session expired or revoked")
	}
	return claims, adminID, nil
}

// CurrentAdminID extracts the authenticated admin ID from context, 0 when anonymous.
func CurrentAdminID(c *gin.Context) uint {
	return c.GetUint(ContextKeyAdminID)
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySID)
}

// IsAuthenticated returns true if the request has a valid login token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentAdminID(c) != 0
}

// SetTokenCookie stores token for ttl.
func SetTokenCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, int(ttl/time.Second), "/", "", secure, true)
}

// ClearTokenCookie expires the login cookie.
func ClearTokenCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, "", -1, "/", "", secure, true)
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	token, _ := c.Cookie(TokenCookie)
	return token
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
