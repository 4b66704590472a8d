package post

import (
	"errors"

	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/pkg/pagination"
	"github.com/bluelog/core/internal/pkg/response"
	"gorm.io/gorm"
)

var ErrUnknownCategory = errors.New("category does not exist")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns posts newest first, with their category loaded.
func (s *Service) List(q pagination.Query) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).Preload("Category").Order("timestamp DESC, id DESC")
	var items []models.PostModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// Manage lists posts for the admin table with their comments loaded.
func (s *Service) Manage(q pagination.Query) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).
		Preload("Category").
		Preload("Comments").
		Order("timestamp DESC, id DESC")
	var items []models.PostModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// ListByCategory returns the posts of one category newest first.
func (s *Service) ListByCategory(categoryID uint, q pagination.Query) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("timestamp DESC, id DESC")
	var items []models.PostModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// Latest returns the n newest posts.
func (s *Service) Latest(n int) ([]models.PostModel, error) {
	var items []models.PostModel
	err := s.db.Preload("Category").Order("timestamp DESC, id DESC").Limit(n).Find(&items).Error
	return items, err
}

// Archive returns a headline for every post.
func (s *Service) Archive() ([]ArchiveEntry, error) {
	var rows []ArchiveEntry
	err := s.db.Model(&models.PostModel{}).
		Select("id, title, timestamp, updated_at").
		Order("timestamp DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *Service) GetByID(id uint) (*models.PostModel, error) {
	var p models.PostModel
	if err := s.db.Preload("Category").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Create publishes a post with comments enabled.
func (s *Service) Create(f *Form) (*models.PostModel, error) {
	if err := s.checkCategory(f.CategoryID); err != nil {
		return nil, err
	}
	p := &models.PostModel{
		Title:      f.Title,
		Body:       f.Body,
		CategoryID: f.CategoryID,
		CanComment: true,
	}
	return p, s.db.Create(p).Error
}

func (s *Service) Update(id uint, f *Form) (*models.PostModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}
	if err := s.checkCategory(f.CategoryID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"title":       f.Title,
		"body":        f.Body,
		"category_id": f.CategoryID,
	}
	// A bare model keeps the preloaded Category from being written back.
	if err := s.db.Model(&models.PostModel{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes a post and all its comments.
func (s *Service) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.PostModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ToggleComment flips can_comment and returns the new value.
func (s *Service) ToggleComment(id uint) (bool, error) {
	p, err := s.GetByID(id)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, gorm.ErrRecordNotFound
	}
	next := !p.CanComment
	return next, s.db.Model(&models.PostModel{}).Where("id = ?", id).Update("can_comment", next).Error
}

// Count returns the number of posts.
func (s *Service) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.PostModel{}).Count(&n).Error
	return n, err
}

func (s *Service) checkCategory(id uint) error {
	var n int64
	if err := s.db.Model(&models.CategoryModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownCategory
	}
	return nil
}
