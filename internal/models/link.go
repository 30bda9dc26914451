package models

type Link struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint   `gorm:"index;not null" json:"-"`
	Platform string `gorm:"size:50;not null" json:"platform"`
	URL      string `gorm:"column:url;size:255;not null" json:"url"`
}
