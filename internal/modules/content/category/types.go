package category

// CategoryWithCount is a category row with the number of posts it holds.
type CategoryWithCount struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	PostCount int64  `json:"post_count"`
}

// Form is the create/edit category form.
type Form struct {
	Name string `form:"name" binding:"required,max=30"`
}
