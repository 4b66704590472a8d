package middleware

import (
	"context"
	"crypto/sha256"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	CSRFFieldName  = "csrf_token"
	csrfCookieName = "bluelog_csrf"
)

type csrfFailureKey struct{}

type csrfFailure struct{ err error }

// CSRF guards unsafe methods with a gorilla/csrf token. fail is called with
// the reason when the check does not pass.
func CSRF(secret string, secure bool, fail func(c *gin.Context, reason error)) gin.HandlerFunc {
	key := sha256.Sum256([]byte(secret))
	protect := csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.CookieName(csrfCookieName),
		csrf.FieldName(CSRFFieldName),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if f, ok := r.Context().Value(csrfFailureKey{}).(*csrfFailure); ok {
				f.err = csrf.FailureReason(r)
			}
		})),
	)

	return func(c *gin.Context) {
		failure := &csrfFailure{}
		req := c.Request.WithContext(context.WithValue(c.Request.Context(), csrfFailureKey{}, failure))
		if req.TLS == nil {
			req = csrf.PlaintextHTTPRequest(req)
		}

		passed := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
		})).ServeHTTP(c.Writer, req)

		if !passed {
			reason := failure.err
			if reason == nil {
				reason = csrf.ErrBadToken
			}
			fail(c, reason)
			c.Abort()
			return
		}
		c.Next()
	}
}
