package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSession tracks a signed-in admin session bound to a JWT cookie.
type UserSession struct {
	ID         string     `json:"id"           gorm:"type:char(36);primaryKey"`
	AdminID    uint       `json:"admin_id"     gorm:"index;not null"`
	IP         string     `json:"ip"           gorm:"size:64"`
	UA         string     `json:"ua"           gorm:"type:text"`
	ExpiresAt  time.Time  `json:"expires_at"   gorm:"index;not null"`
	LastSeenAt time.Time  `json:"last_seen_at"`
	RevokedAt  *time.Time `json:"revoked_at"   gorm:"index"`
	CreatedAt  time.Time  `json:"created"`
}

func (UserSession) TableName() string { return "user_sessions" }

func (s *UserSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.LastSeenAt.IsZero() {
		s.LastSeenAt = time.Now()
	}
	return nil
}
