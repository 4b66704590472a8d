package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/pkg/forms"
	"github.com/bluelog/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererParsesEveryPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, page := range []string{
		"blog/index.html", "blog/about.html", "blog/category.html", "blog/post.html",
		"auth/login.html",
		"admin/settings.html", "admin/manage_post.html", "admin/post_form.html",
		"admin/manage_comment.html", "admin/manage_category.html", "admin/manage_link.html",
		"admin/name_form.html",
		"errors/400.html", "errors/404.html", "errors/500.html",
	} {
		assert.True(t, r.Has(page), page)
	}
	assert.False(t, r.Has("partials/pager.html"))
}

func TestRenderIndexWithPager(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	now := time.Now()
	data := gin.H{
		"theme":     "perfect_blue",
		"path":      "/",
		"logged_in": false,
		"admin":     &models.AdminModel{BlogTitle: "Bluelog", BlogSubTitle: "sub", Name: "Grey"},
		"posts": []models.PostModel{
			{Base: models.Base{ID: 7}, Title: "Hello", Body: "<p>body</p>", Timestamp: now,
				Category: &models.CategoryModel{Base: models.Base{ID: 1}, Name: "Default"}},
		},
		"pagination": response.Pagination{Total: 11, CurrentPage: 1, TotalPage: 2, Size: 10, HasNextPage: true},
		"pager_url":  "/page/%d",
		"errors":     forms.Errors(nil),
	}

	w := httptest.NewRecorder()
	require.NoError(t, r.Instance("blog/index.html", data).Render(w))
	body := w.Body.String()
	assert.Contains(t, body, `<a href="/post/7">Hello</a>`)
	assert.Contains(t, body, `href="/page/2"`)
	assert.Contains(t, body, "/static/css/perfect_blue.css")
	assert.Contains(t, body, "Home - Bluelog")
}

func TestStaticServesAssets(t *testing.T) {
	f, err := Static().Open("css/style.css")
	require.NoError(t, err)
	defer f.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(f)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), ".page-header")
}

func TestSafeURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://blog.example/post/1", nil)

	cases := []struct {
		target string
		want   string
		ok     bool
	}{
		{"/admin/settings", "/admin/settings", true},
		{"/post/1?page=2", "/post/1?page=2", true},
		{"http://blog.example/about", "/about", true},
		{"https://evil.example/", "", false},
		{"//evil.example/", "", false},
		{"javascript:alert(1)", "", false},
	}
	for _, tc := range cases {
		got, ok := SafeURL(req, tc.target)
		assert.Equal(t, tc.ok, ok, tc.target)
		assert.Equal(t, tc.want, got, tc.target)
	}
}

func TestFieldError(t *testing.T) {
	errs := forms.Errors{}
	errs.Add("name", "Name already in use.")
	assert.Equal(t, "Name already in use.", fieldError(errs, "name"))
	assert.Empty(t, fieldError(nil, "name"))
	assert.Empty(t, fieldError(forms.Errors(nil), "name"))
}
