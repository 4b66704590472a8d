package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddThenPop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewStore("secret", false)

	r := gin.New()
	r.GET("/add", func(c *gin.Context) {
		store.Add(c, Success, "Post created.")
		store.Add(c, Warning, "Careful.")
		c.Redirect(http.StatusFound, "/show")
	})
	r.GET("/show", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Pop(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/add", nil))
	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/show", nil)
	req.AddCookie(cookies[len(cookies)-1])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `[{"Category":"success","Text":"Post created."},{"Category":"warning","Text":"Careful."}]`, w.Body.String())

	// The response clears the cookie so messages appear once.
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)
	req = httptest.NewRequest(http.MethodGet, "/show", nil)
	req.AddCookie(cleared[len(cleared)-1])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "null", w.Body.String())
}
