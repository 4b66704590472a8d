package comment

import (
	"testing"

	"github.com/bluelog/core/internal/database/dbtest"
	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*Service, *gorm.DB, *models.PostModel) {
	db := dbtest.Open(t)
	require.NoError(t, db.Create(&models.CategoryModel{Name: models.DefaultCategoryName}).Error)
	p := &models.PostModel{Title: "t", Body: "b", CategoryID: 1, CanComment: true}
	require.NoError(t, db.Create(p).Error)
	return NewService(db), db, p
}

func visitor(postID uint) NewComment {
	return NewComment{PostID: postID, Author: "Guest", Email: "g@example.com", Body: "hi"}
}

func TestVisitorCommentWaitsForReview(t *testing.T) {
	svc, _, p := setup(t)
	c, err := svc.Create(visitor(p.ID))
	require.NoError(t, err)
	assert.False(t, c.Reviewed)
	assert.False(t, c.FromAdmin)

	items, _, err := svc.ListReviewed(p.ID, pagination.New(1, 15))
	require.NoError(t, err)
	assert.Empty(t, items)

	n, err := svc.UnreadCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, svc.Approve(c.ID))
	items, _, err = svc.ListReviewed(p.ID, pagination.New(1, 15))
	require.NoError(t, err)
	assert.Len(t, items, 1)

	n, err = svc.CountReviewed(p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.ErrorIs(t, svc.Approve(999), gorm.ErrRecordNotFound)
}

func TestAdminCommentIsPublished(t *testing.T) {
	svc, _, p := setup(t)
	in := visitor(p.ID)
	in.FromAdmin = true
	c, err := svc.Create(in)
	require.NoError(t, err)
	assert.True(t, c.Reviewed)
}

func TestCreateChecksPost(t *testing.T) {
	svc, db, p := setup(t)
	_, err := svc.Create(visitor(999))
	assert.ErrorIs(t, err, ErrPostNotFound)

	require.NoError(t, db.Model(p).Update("can_comment", false).Error)
	_, err = svc.Create(visitor(p.ID))
	assert.ErrorIs(t, err, ErrCommentDisabled)
}

func TestReply(t *testing.T) {
	svc, db, p := setup(t)
	parent, err := svc.Create(visitor(p.ID))
	require.NoError(t, err)

	in := visitor(p.ID)
	in.RepliedID = &parent.ID
	reply, err := svc.Create(in)
	require.NoError(t, err)
	require.NotNil(t, reply.RepliedID)
	assert.Equal(t, parent.ID, *reply.RepliedID)

	other := &models.PostModel{Title: "o", CategoryID: 1, CanComment: true}
	require.NoError(t, db.Create(other).Error)
	in = visitor(other.ID)
	in.RepliedID = &parent.ID
	_, err = svc.Create(in)
	assert.ErrorIs(t, err, ErrReplyMismatch)

	missing := uint(999)
	in = visitor(p.ID)
	in.RepliedID = &missing
	_, err = svc.Create(in)
	assert.ErrorIs(t, err, ErrReplyNotFound)
}

func TestDeleteRemovesReplyTree(t *testing.T) {
	svc, db, p := setup(t)
	root, err := svc.Create(visitor(p.ID))
	require.NoError(t, err)
	in := visitor(p.ID)
	in.RepliedID = &root.ID
	child, err := svc.Create(in)
	require.NoError(t, err)
	in.RepliedID = &child.ID
	_, err = svc.Create(in)
	require.NoError(t, err)
	_, err = svc.Create(visitor(p.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(root.ID))

	var n int64
	require.NoError(t, db.Model(&models.CommentModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	assert.ErrorIs(t, svc.Delete(root.ID), gorm.ErrRecordNotFound)
}

func TestModerationFilters(t *testing.T) {
	svc, _, p := setup(t)
	_, err := svc.Create(visitor(p.ID))
	require.NoError(t, err)
	admin := visitor(p.ID)
	admin.FromAdmin = true
	_, err = svc.Create(admin)
	require.NoError(t, err)

	cases := map[Filter]int{FilterAll: 2, FilterUnread: 1, FilterAdmin: 1}
	for f, want := range cases {
		items, _, err := svc.ListForModeration(f, pagination.New(1, 15))
		require.NoError(t, err)
		assert.Len(t, items, want, string(f))
		for _, c := range items {
			assert.NotNil(t, c.Post)
		}
	}

	assert.Equal(t, FilterUnread, ParseFilter("unread"))
	assert.Equal(t, FilterAll, ParseFilter("bogus"))
}
