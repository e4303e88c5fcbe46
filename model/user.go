package model

import "gorm.io/gorm"

// User is an account allowed to browse the board.
type User struct {
	gorm.Model
	Username       string `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email          string `json:"email" gorm:"type:varchar(191)"`
	Password       string `json:"-" gorm:"type:varchar(255);not null"`
	PasswordSalt   string `json:"-" gorm:"type:varchar(64)"`
	FailedAttempts int    `json:"-" gorm:"not null;default:0"`
	LockedUntil    *int64 `json:"-"`
}
