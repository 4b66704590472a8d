package user

import "errors"

var (
	// ErrNoAccount is returned by Login when the blog has no admin yet.
	ErrNoAccount = errors.New("no account")
	// ErrInvalidCredentials is returned by Login for a bad username or password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// SettingsForm is the admin profile form.
type SettingsForm struct {
	Name         string `form:"name"           binding:"required,max=30"`
	BlogTitle    string `form:"blog_title"     binding:"required,max=60"`
	BlogSubTitle string `form:"blog_sub_title" binding:"required,max=100"`
	About        string `form:"about"          binding:"required"`
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Username string `form:"username" binding:"required,max=20"`
	Password string `form:"password" binding:"required,max=128"`
	Remember bool   `form:"remember"`
}

// Profile holds the descriptive admin fields.
type Profile struct {
	BlogTitle    string
	BlogSubTitle string
	Name         string
	About        string
}

// DefaultProfile is used by the init command when creating the admin.
var DefaultProfile = Profile{
	BlogTitle:    "Bluelog",
	BlogSubTitle: "No, I'm the real thing.",
	Name:         "Admin",
	About:        "Anything about you.",
}
