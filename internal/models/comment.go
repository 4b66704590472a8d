package models

import (
	"time"

	"gorm.io/gorm"
)

// CommentModel is a visitor or admin comment on a post. RepliedID points at the
// comment this one answers.
type CommentModel struct {
	Base
	Author    string    `json:"author"     gorm:"size:30"`
	Email     string    `json:"email"      gorm:"size:254"`
	Site      string    `json:"site"       gorm:"size:255"`
	Body      string    `json:"body"       gorm:"type:text"`
	FromAdmin bool      `json:"from_admin" gorm:"not null"`
	Reviewed  bool      `json:"reviewed"   gorm:"not null;index"`
	Timestamp time.Time `json:"timestamp"  gorm:"index"`

	RepliedID *uint          `json:"replied_id"        gorm:"index"`
	Replied   *CommentModel  `json:"replied,omitempty" gorm:"foreignKey:RepliedID"`
	Replies   []CommentModel `json:"replies,omitempty" gorm:"foreignKey:RepliedID"`

	PostID uint       `json:"post_id"        gorm:"index;not null"`
	Post   *PostModel `json:"post,omitempty" gorm:"foreignKey:PostID"`
}

func (CommentModel) TableName() string { return "comments" }

func (c *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	return nil
}
