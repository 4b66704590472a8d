package comment

// Filter selects which comments the moderation list shows.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
	FilterAdmin  Filter = "admin"
)

// ParseFilter maps a query value to a Filter, defaulting to all.
func ParseFilter(raw string) Filter {
	switch Filter(raw) {
	case FilterUnread, FilterAdmin:
		return Filter(raw)
	default:
		return FilterAll
	}
}

// Form is the visitor comment form. Admin comments fill author, email and site
// from the admin profile.
type Form struct {
	Author string `form:"author" binding:"required,max=30"`
	Email  string `form:"email"  binding:"required,email,max=254"`
	Site   string `form:"site"   binding:"omitempty,url,max=255"`
	Body   string `form:"body"   binding:"required"`
}

// AdminForm is the comment form shown to the logged-in admin.
type AdminForm struct {
	Body string `form:"body" binding:"required"`
}

// NewComment describes a comment to store.
type NewComment struct {
	PostID    uint
	RepliedID *uint
	Author    string
	Email     string
	Site      string
	Body      string
	FromAdmin bool
}
