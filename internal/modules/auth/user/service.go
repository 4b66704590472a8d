package user

import (
	"errors"
	"strings"
	"time"

	"github.com/bluelog/core/internal/models"
	sessionpkg "github.com/bluelog/core/internal/pkg/session"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// GetOwner returns the admin profile, or nil before the blog is initialized.
func (s *Service) GetOwner() (*models.AdminModel, error) {
	var a models.AdminModel
	if err := s.db.Order("id ASC").First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *Service) GetByID(id uint) (*models.AdminModel, error) {
	var a models.AdminModel
	if err := s.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Login checks the credentials and opens a session. remember extends the
// session lifetime.
func (s *Service) Login(username, password string, remember bool, ip, ua string) (string, time.Duration, error) {
	owner, err := s.GetOwner()
	if err != nil {
		return "", 0, err
	}
	if owner == nil {
		return "", 0, ErrNoAccount
	}
	if owner.Username != strings.TrimSpace(username) || !owner.ValidatePassword(password) {
		return "", 0, ErrInvalidCredentials
	}

	ttl := sessionpkg.DefaultTTL
	if remember {
		ttl = sessionpkg.RememberTTL
	}
	token, _, err := sessionpkg.Issue(s.db, owner.ID, ip, ua, ttl)
	if err != nil {
		return "", 0, err
	}
	return token, ttl, nil
}

// Logout revokes the session behind the current cookie.
func (s *Service) Logout(adminID uint, sessionID string) error {
	err := sessionpkg.Revoke(s.db, adminID, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// UpdateSettings saves the profile form.
func (s *Service) UpdateSettings(id uint, f *SettingsForm) (*models.AdminModel, error) {
	a, err := s.GetByID(id)
	if err != nil || a == nil {
		return a, err
	}
	updates := map[string]interface{}{
		"name":           f.Name,
		"blog_title":     f.BlogTitle,
		"blog_sub_title": f.BlogSubTitle,
		"about":          f.About,
	}
	if err := s.db.Model(a).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Upsert sets the credentials of the existing admin, or creates one with
// profile. It reports whether a new admin was created.
func (s *Service) Upsert(username, password string, profile Profile) (*models.AdminModel, bool, error) {
	owner, err := s.GetOwner()
	if err != nil {
		return nil, false, err
	}

	if owner != nil {
		owner.Username = username
		if err := owner.SetPassword(password); err != nil {
			return nil, false, err
		}
		if err := s.db.Model(owner).Updates(map[string]interface{}{
			"username":      owner.Username,
			"password_hash": owner.PasswordHash,
		}).Error; err != nil {
			return nil, false, err
		}
		if err := sessionpkg.RevokeAll(s.db, owner.ID); err != nil {
			return nil, false, err
		}
		return owner, false, nil
	}

	a := &models.AdminModel{
		Username:     username,
		BlogTitle:    profile.BlogTitle,
		BlogSubTitle: profile.BlogSubTitle,
		Name:         profile.Name,
		About:        profile.About,
	}
	if err := a.SetPassword(password); err != nil {
		return nil, false, err
	}
	return a, true, s.db.Create(a).Error
}
