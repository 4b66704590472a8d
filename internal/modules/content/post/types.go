package post

import "time"

// Form is the admin create/edit post form.
type Form struct {
	Title      string `form:"title"    binding:"required,max=60"`
	CategoryID uint   `form:"category" binding:"required,gt=0"`
	Body       string `form:"body"     binding:"required"`
}

// ArchiveEntry is a post headline used by feeds and the sitemap.
type ArchiveEntry struct {
	ID        uint
	Title     string
	Timestamp time.Time
	UpdatedAt time.Time
}
