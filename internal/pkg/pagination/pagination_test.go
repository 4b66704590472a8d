package pagination

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/bluelog/core/internal/database/dbtest"
	"github.com/bluelog/core/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextClamps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=-3&size=1000", nil)

	q := FromContext(c)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxSize, q.Size)
}

func TestPageFromContextPrefersPathParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/page/3?page=9", nil)
	c.Params = gin.Params{{Key: "page", Value: "3"}}

	q := PageFromContext(c, 15)
	assert.Equal(t, Query{Page: 3, Size: 15}, q)
}

func TestPaginate(t *testing.T) {
	db := dbtest.Open(t)
	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&models.LinkModel{Name: fmt.Sprintf("l%02d", i), URL: "https://example.com"}).Error)
	}

	var items []models.LinkModel
	pag, err := Paginate(db.Model(&models.LinkModel{}).Order("name"), New(3, 10), &items)
	require.NoError(t, err)

	assert.Len(t, items, 5)
	assert.Equal(t, "l20", items[0].Name)
	assert.EqualValues(t, 25, pag.Total)
	assert.Equal(t, 3, pag.TotalPage)
	assert.False(t, pag.HasNextPage)
	assert.True(t, pag.HasPrevPage())
	assert.Equal(t, 2, pag.PrevPage())
	assert.Equal(t, []int{1, 2, 3}, pag.Pages())
}
