package category

import (
	"errors"
	"strings"

	"github.com/bluelog/core/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNameInUse       = errors.New("category name already in use")
	ErrDefaultCategory = errors.New("default category is protected")
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns all categories ordered by name.
func (s *Service) List() ([]models.CategoryModel, error) {
	var items []models.CategoryModel
	err := s.db.Order("name ASC").Find(&items).Error
	return items, err
}

// ListWithCounts returns categories ordered by name along with their post counts.
func (s *Service) ListWithCounts() ([]CategoryWithCount, error) {
	var rows []CategoryWithCount
	err := s.db.Model(&models.CategoryModel{}).
		Select("categories.id, categories.name, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN posts ON posts.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("categories.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *Service) GetByID(id uint) (*models.CategoryModel, error) {
	var c models.CategoryModel
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Create adds a category. Names are unique.
func (s *Service) Create(name string) (*models.CategoryModel, error) {
	name = strings.TrimSpace(name)
	taken, err := s.nameTaken(name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameInUse
	}
	c := &models.CategoryModel{Name: name}
	if err := s.db.Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameInUse
		}
		return nil, err
	}
	return c, nil
}

// Rename changes the name of a non-default category.
func (s *Service) Rename(id uint, name string) (*models.CategoryModel, error) {
	if id == models.DefaultCategoryID {
		return nil, ErrDefaultCategory
	}
	c, err := s.GetByID(id)
	if err != nil || c == nil {
		return c, err
	}
	name = strings.TrimSpace(name)
	taken, err := s.nameTaken(name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameInUse
	}
	if err := s.db.Model(c).Update("name", name).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameInUse
		}
		return nil, err
	}
	return c, nil
}

// Delete moves the category's posts to the default category, then removes it.
func (s *Service) Delete(id uint) error {
	if id == models.DefaultCategoryID {
		return ErrDefaultCategory
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PostModel{}).
			Where("category_id = ?", id).
			Update("category_id", models.DefaultCategoryID)
		if res.Error != nil {
			return res.Error
		}
		res = tx.Delete(&models.CategoryModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// EnsureDefault creates the default category when no category exists yet.
func (s *Service) EnsureDefault() (bool, error) {
	var count int64
	if err := s.db.Model(&models.CategoryModel{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	return true, s.db.Create(&models.CategoryModel{Name: models.DefaultCategoryName}).Error
}

func (s *Service) nameTaken(name string, exceptID uint) (bool, error) {
	var count int64
	q := s.db.Model(&models.CategoryModel{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
