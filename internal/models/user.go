package models

type User struct {
	BaseModel
	Email             string  `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash      string  `gorm:"column:password;size:255;not null"`
	Verified          bool    `gorm:"not null;default:false"`
	VerificationToken *string `gorm:"column:verification_code;size:255;index"`

	// Relations
	Profile  *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Links    []Link    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Sessions []Session `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
