package models

import "time"

// Base is the base model for blog entities. IDs are auto-increment integers so
// the first category created is always the default one.
type Base struct {
	ID        uint      `json:"id"       gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}

// DefaultCategoryID is the id of the "Default" category that owns orphaned posts.
const DefaultCategoryID uint = 1

// DefaultCategoryName is the name given to the default category.
const DefaultCategoryName = "Default"

// All lists every model managed by the schema migration, in creation order.
func All() []interface{} {
	return []interface{}{
		&AdminModel{},
		&UserSession{},
		&CategoryModel{},
		&PostModel{},
		&CommentModel{},
		&LinkModel{},
	}
}
