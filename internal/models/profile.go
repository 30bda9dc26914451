package models

// DefaultThemeColor is applied to every profile created at verification
const DefaultThemeColor = "#6366f1"

type Profile struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"-"`
	DisplayName string `gorm:"size:100" json:"display_name"`
	Bio         string `gorm:"type:text" json:"bio"`
	ThemeColor  string `gorm:"size:50;default:'#6366f1'" json:"theme_color"`
}
