package link

// Form is the create/edit link form.
type Form struct {
	Name string `form:"name" binding:"required,max=30"`
	URL  string `form:"url"  binding:"required,url,max=255"`
}
