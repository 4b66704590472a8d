package link

import (
	"errors"

	"github.com/bluelog/core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns all links ordered by name.
func (s *Service) List() ([]models.LinkModel, error) {
	var items []models.LinkModel
	err := s.db.Order("name ASC").Find(&items).Error
	return items, err
}

func (s *Service) GetByID(id uint) (*models.LinkModel, error) {
	var l models.LinkModel
	if err := s.db.First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (s *Service) Create(f *Form) (*models.LinkModel, error) {
	l := &models.LinkModel{Name: f.Name, URL: f.URL}
	return l, s.db.Create(l).Error
}

func (s *Service) Update(id uint, f *Form) (*models.LinkModel, error) {
	l, err := s.GetByID(id)
	if err != nil || l == nil {
		return l, err
	}
	updates := map[string]interface{}{
		"name": f.Name,
		"url":  f.URL,
	}
	if err := s.db.Model(l).Updates(updates).Error; err != nil {
		return nil, err
	}
	l.Name, l.URL = f.Name, f.URL
	return l, nil
}

func (s *Service) Delete(id uint) error {
	res := s.db.Delete(&models.LinkModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
