package models

import "golang.org/x/crypto/bcrypt"

// AdminModel is the singleton blog owner profile.
type AdminModel struct {
	Base
	Username     string `json:"username"       gorm:"size:20;not null"`
	PasswordHash string `json:"-"              gorm:"size:128;not null"`
	BlogTitle    string `json:"blog_title"     gorm:"size:60"`
	BlogSubTitle string `json:"blog_sub_title" gorm:"size:100"`
	Name         string `json:"name"           gorm:"size:30"`
	About        string `json:"about"          gorm:"type:text"`
}

func (AdminModel) TableName() string { return "admins" }

// SetPassword stores a bcrypt hash of password.
func (a *AdminModel) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// ValidatePassword reports whether password matches the stored hash.
func (a *AdminModel) ValidatePassword(password string) bool {
	if a.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}
