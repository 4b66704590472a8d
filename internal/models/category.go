package models

// CategoryModel groups posts. Every post belongs to exactly one category.
type CategoryModel struct {
	Base
	Name string `json:"name" gorm:"size:30;uniqueIndex;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "categories" }

// IsDefault reports whether this is the protected default category.
func (c *CategoryModel) IsDefault() bool { return c.ID == DefaultCategoryID }
