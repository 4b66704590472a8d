package forms

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentForm struct {
	Author string `form:"author" binding:"required,max=30"`
	Email  string `form:"email"  binding:"required,email,max=254"`
	Site   string `form:"site"   binding:"omitempty,url,max=255"`
	Body   string `form:"body"   binding:"required"`
}

func postContext(values url.Values) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest("POST", "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestBindValid(t *testing.T) {
	var f commentForm
	errs := Bind(postContext(url.Values{
		"author": {"  Grey  "},
		"email":  {"grey@example.com"},
		"body":   {"hello"},
	}), &f)
	require.Nil(t, errs)
	assert.Equal(t, "Grey", f.Author)
}

func TestBindCollectsFieldErrors(t *testing.T) {
	var f commentForm
	errs := Bind(postContext(url.Values{
		"author": {"   "},
		"email":  {"nope"},
		"site":   {"not a url"},
		"body":   {strings.Repeat("x", 5)},
	}), &f)
	require.NotNil(t, errs)
	assert.Equal(t, "This field is required.", errs.First("author"))
	assert.Equal(t, "Invalid email address.", errs.First("email"))
	assert.Equal(t, "Invalid URL.", errs.First("site"))
	assert.False(t, errs.Has("body"))
}

func TestBindMaxLength(t *testing.T) {
	var f commentForm
	errs := Bind(postContext(url.Values{
		"author": {strings.Repeat("a", 31)},
		"email":  {"a@example.com"},
		"body":   {"x"},
	}), &f)
	require.NotNil(t, errs)
	assert.Equal(t, "Field cannot be longer than 30 characters.", errs.First("author"))
}
