package models

import (
	"time"

	"gorm.io/gorm"
)

// PostModel is a blog article.
type PostModel struct {
	Base
	Title      string    `json:"title"       gorm:"size:60;not null"`
	Body       string    `json:"body"        gorm:"type:text"`
	Timestamp  time.Time `json:"timestamp"   gorm:"index"`
	CanComment bool      `json:"can_comment" gorm:"not null"`

	CategoryID uint           `json:"category_id"        gorm:"index;not null"`
	Category   *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`

	Comments []CommentModel `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

func (PostModel) TableName() string { return "posts" }

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	return nil
}
