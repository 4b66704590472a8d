package seed

import (
	"bytes"
	"testing"

	"github.com/bluelog/core/internal/database/dbtest"
	"github.com/bluelog/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	db := dbtest.Open(t)
	var out bytes.Buffer
	opts := Options{Categories: 5, Posts: 20, Comments: 50, AdminEmail: "me@example.com", BaseURL: "http://localhost", Seed: 42}

	require.NoError(t, New(db, opts, &out).Run())

	var admin models.AdminModel
	require.NoError(t, db.First(&admin).Error)
	assert.Equal(t, FakeUsername, admin.Username)
	assert.True(t, admin.ValidatePassword(FakePassword))
	assert.Equal(t, "This is a fake blog", admin.BlogSubTitle)

	var def models.CategoryModel
	require.NoError(t, db.First(&def, models.DefaultCategoryID).Error)
	assert.Equal(t, models.DefaultCategoryName, def.Name)

	var categories, posts, comments, unreviewed, fromAdmin, replies int64
	db.Model(&models.CategoryModel{}).Count(&categories)
	db.Model(&models.PostModel{}).Count(&posts)
	db.Model(&models.CommentModel{}).Count(&comments)
	db.Model(&models.CommentModel{}).Where("reviewed = ?", false).Count(&unreviewed)
	db.Model(&models.CommentModel{}).Where("from_admin = ?", true).Count(&fromAdmin)
	db.Model(&models.CommentModel{}).Where("replied_id IS NOT NULL").Count(&replies)

	assert.GreaterOrEqual(t, categories, int64(1))
	assert.LessOrEqual(t, categories, int64(6))
	assert.EqualValues(t, 20, posts)
	assert.EqualValues(t, 50+5+5+5, comments)
	assert.EqualValues(t, 5, unreviewed)
	assert.EqualValues(t, 5, fromAdmin)
	assert.EqualValues(t, 5, replies)

	var mismatched int64
	db.Table("comments AS r").
		Joins("JOIN comments AS p ON p.id = r.replied_id").
		Where("p.post_id <> r.post_id").
		Count(&mismatched)
	assert.Zero(t, mismatched)

	assert.Contains(t, out.String(), "Generating the administrator...")
	assert.Contains(t, out.String(), "Generating 20 posts...")
	assert.Contains(t, out.String(), "Done.")
}

func TestPostBodiesAreBounded(t *testing.T) {
	db := dbtest.Open(t)
	f := New(db, Options{Seed: 1}, nil)
	require.NoError(t, f.Categories(0))
	require.NoError(t, f.Posts(3))

	var items []models.PostModel
	require.NoError(t, db.Find(&items).Error)
	for _, p := range items {
		assert.LessOrEqual(t, len([]rune(p.Body)), bodyLength)
		assert.NotEmpty(t, p.Title)
		assert.EqualValues(t, models.DefaultCategoryID, p.CategoryID)
	}
}

func TestCommentsNeedPosts(t *testing.T) {
	db := dbtest.Open(t)
	assert.Error(t, New(db, Options{}, nil).Comments(10))
}
