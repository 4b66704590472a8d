package comment

import (
	"errors"

	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/pkg/pagination"
	"github.com/bluelog/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	ErrCommentDisabled = errors.New("comments are disabled for this post")
	ErrPostNotFound    = errors.New("post not found")
	ErrReplyMismatch   = errors.New("replied comment belongs to another post")
	ErrReplyNotFound   = errors.New("replied comment not found")
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListReviewed returns the reviewed comments of a post, oldest first.
func (s *Service) ListReviewed(postID uint, q pagination.Query) ([]models.CommentModel, response.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).
		Preload("Replied").
		Where("post_id = ? AND reviewed = ?", postID, true).
		Order("timestamp ASC, id ASC")
	var items []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// ListForModeration returns comments matching filter, newest first.
func (s *Service) ListForModeration(filter Filter, q pagination.Query) ([]models.CommentModel, response.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).Preload("Post").Order("timestamp DESC, id DESC")
	switch filter {
	case FilterUnread:
		tx = tx.Where("reviewed = ?", false)
	case FilterAdmin:
		tx = tx.Where("from_admin = ?", true)
	}
	var items []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id uint) (*models.CommentModel, error) {
	var c models.CommentModel
	if err := s.db.Preload("Post").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Create stores a comment. Admin comments are published at once, visitor
// comments wait for review.
func (s *Service) Create(in NewComment) (*models.CommentModel, error) {
	var post models.PostModel
	if err := s.db.Select("id, can_comment").First(&post, in.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if !post.CanComment {
		return nil, ErrCommentDisabled
	}

	c := &models.CommentModel{
		PostID:    in.PostID,
		Author:    in.Author,
		Email:     in.Email,
		Site:      in.Site,
		Body:      in.Body,
		FromAdmin: in.FromAdmin,
		Reviewed:  in.FromAdmin,
	}
	if in.RepliedID != nil {
		replied, err := s.GetByID(*in.RepliedID)
		if err != nil {
			return nil, err
		}
		if replied == nil {
			return nil, ErrReplyNotFound
		}
		if replied.PostID != in.PostID {
			return nil, ErrReplyMismatch
		}
		c.RepliedID = &replied.ID
		c.Replied = replied
	}

	if err := s.db.Omit("Replied", "Post").Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// Approve marks a comment as reviewed.
func (s *Service) Approve(id uint) error {
	res := s.db.Model(&models.CommentModel{}).Where("id = ?", id).Update("reviewed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a comment and every reply below it.
func (s *Service) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		ids := []uint{id}
		for frontier := []uint{id}; len(frontier) > 0; {
			var next []uint
			if err := tx.Model(&models.CommentModel{}).Where("replied_id IN ?", frontier).Pluck("id", &next).Error; err != nil {
				return err
			}
			ids = append(ids, next...)
			frontier = next
		}
		res := tx.Where("id IN ?", ids).Delete(&models.CommentModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UnreadCount returns the number of comments waiting for review.
func (s *Service) UnreadCount() (int64, error) {
	var n int64
	err := s.db.Model(&models.CommentModel{}).Where("reviewed = ?", false).Count(&n).Error
	return n, err
}

// CountReviewed returns the number of published comments of a post.
func (s *Service) CountReviewed(postID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.CommentModel{}).Where("post_id = ? AND reviewed = ?", postID, true).Count(&n).Error
	return n, err
}
