package models

// LinkModel is a sidebar link.
type LinkModel struct {
	Base
	Name string `json:"name" gorm:"size:30;not null"`
	URL  string `json:"url"  gorm:"size:255;not null"`
}

func (LinkModel) TableName() string { return "links" }
