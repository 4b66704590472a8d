package post

import (
	"fmt"
	"testing"
	"time"

	"github.com/bluelog/core/internal/database/dbtest"
	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*Service, *gorm.DB) {
	db := dbtest.Open(t)
	require.NoError(t, db.Create(&models.CategoryModel{Name: models.DefaultCategoryName}).Error)
	require.NoError(t, db.Create(&models.CategoryModel{Name: "Go"}).Error)
	return NewService(db), db
}

func TestCreateEnablesComments(t *testing.T) {
	svc, _ := setup(t)
	p, err := svc.Create(&Form{Title: "Hello", Body: "world", CategoryID: 2})
	require.NoError(t, err)
	assert.True(t, p.CanComment)
	assert.False(t, p.Timestamp.IsZero())

	got, err := svc.GetByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Go", got.Category.Name)
}

func TestCreateUnknownCategory(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.Create(&Form{Title: "x", Body: "y", CategoryID: 42})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestListNewestFirstAndPaged(t *testing.T) {
	svc, db := setup(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		require.NoError(t, db.Create(&models.PostModel{
			Title:      fmt.Sprintf("p%d", i),
			CategoryID: 1 + uint(i%2),
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			CanComment: true,
		}).Error)
	}

	items, pag, err := svc.List(pagination.New(1, 10))
	require.NoError(t, err)
	assert.Len(t, items, 10)
	assert.Equal(t, "p11", items[0].Title)
	assert.True(t, pag.HasNextPage)
	assert.Equal(t, 2, pag.TotalPage)

	byCat, pag, err := svc.ListByCategory(2, pagination.New(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 6, pag.Total)
	for _, p := range byCat {
		assert.EqualValues(t, 2, p.CategoryID)
	}

	latest, err := svc.Latest(3)
	require.NoError(t, err)
	assert.Len(t, latest, 3)

	archive, err := svc.Archive()
	require.NoError(t, err)
	assert.Len(t, archive, 12)
}

func TestUpdate(t *testing.T) {
	svc, db := setup(t)
	p, err := svc.Create(&Form{Title: "a", Body: "b", CategoryID: 1})
	require.NoError(t, err)

	updated, err := svc.Update(p.ID, &Form{Title: "c", Body: "d", CategoryID: 2})
	require.NoError(t, err)
	assert.Equal(t, "c", updated.Title)
	assert.EqualValues(t, 2, updated.CategoryID)
	require.NotNil(t, updated.Category)
	assert.EqualValues(t, 2, updated.Category.ID)

	var stored models.PostModel
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.EqualValues(t, 2, stored.CategoryID)

	missing, err := svc.Update(999, &Form{Title: "c", Body: "d", CategoryID: 2})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteRemovesComments(t *testing.T) {
	svc, db := setup(t)
	p, err := svc.Create(&Form{Title: "a", Body: "b", CategoryID: 1})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.CommentModel{PostID: p.ID, Author: "x", Body: "y"}).Error)

	require.NoError(t, svc.Delete(p.ID))

	var n int64
	require.NoError(t, db.Model(&models.CommentModel{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.ErrorIs(t, svc.Delete(p.ID), gorm.ErrRecordNotFound)
}

func TestToggleComment(t *testing.T) {
	svc, _ := setup(t)
	p, err := svc.Create(&Form{Title: "a", Body: "b", CategoryID: 1})
	require.NoError(t, err)

	enabled, err := svc.ToggleComment(p.ID)
	require.NoError(t, err)
	assert.False(t, enabled)

	enabled, err = svc.ToggleComment(p.ID)
	require.NoError(t, err)
	assert.True(t, enabled)

	_, err = svc.ToggleComment(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
