package session

import (
	"strings"
	"time"

	"github.com/bluelog/core/internal/models"
	jwtpkg "github.com/bluelog/core/internal/pkg/jwt"
	"gorm.io/gorm"
)

const (
	// DefaultTTL is the lifetime of a session that was not remembered.
	DefaultTTL = 24 * time.Hour
	// RememberTTL is the lifetime of a "remember me" session.
	RememberTTL = 30 * 24 * time.Hour
)

// Issue creates a DB session and signs a JWT bound to that session.
func Issue(db *gorm.DB, adminID uint, ip, ua string, ttl time.Duration) (string, *models.UserSession, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	s := &models.UserSession{
		AdminID:   adminID,
		IP:        strings.TrimSpace(ip),
		UA:        strings.TrimSpace(ua),
		ExpiresAt: now.Add(ttl),
	}
	if err := db.Create(s).Error; err != nil {
		return "", nil, err
	}

	token, err := jwtpkg.Sign(adminID, s.ID, ttl)
	if err != nil {
		_ = db.Delete(s).Error
		return "", nil, err
	}
	return token, s, nil
}

// IsActive reports whether the session exists, belongs to adminID and is neither expired nor revoked.
func IsActive(db *gorm.DB, adminID uint, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}

	var count int64
	err := db.Model(&models.UserSession{}).
		Where("id = ? AND admin_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, adminID, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func Touch(db *gorm.DB, adminID uint, sessionID string) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return
	}
	_ = db.Model(&models.UserSession{}).
		Where("id = ? AND admin_id = ? AND revoked_at IS NULL", sessionID, adminID).
		Update("last_seen_at", time.Now()).Error
}

func Revoke(db *gorm.DB, adminID uint, sessionID string) error {
	now := time.Now()
	res := db.Model(&models.UserSession{}).
		Where("id = ? AND admin_id = ? AND revoked_at IS NULL", sessionID, adminID).
		Update("revoked_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RevokeAll ends every session of adminID, e.g. after a password change.
func RevokeAll(db *gorm.DB, adminID uint) error {
	now := time.Now()
	return db.Model(&models.UserSession{}).
		Where("admin_id = ? AND revoked_at IS NULL", adminID).
		Update("revoked_at", &now).Error
}

// PurgeExpired deletes sessions that expired or were revoked before cutoff.
func PurgeExpired(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", cutoff, cutoff).
		Delete(&models.UserSession{})
	return res.RowsAffected, res.Error
}
