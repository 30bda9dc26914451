package models

import "time"

// Session - server-side login state, referenced from the signed cookie by ID
type Session struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
