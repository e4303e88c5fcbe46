package model

import (
	"time"

	"gorm.io/gorm"
)

// Session is a login issued to a user; the token travels in the
// session-token header (API) or the session_token cookie (web pages).
type Session struct {
	gorm.Model
	SessionToken string    `json:"session_token" gorm:"type:varchar(512);uniqueIndex;not null"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"index"`
	ClientIP     string    `json:"client_ip" gorm:"type:varchar(45)"`
	Browser      string    `json:"browser" gorm:"type:varchar(512)"`
}

// FindActiveSession returns the unexpired session for token.
func FindActiveSession(db *gorm.DB, token string, now time.Time) (Session, error) {
	var s Session
	err := db.Where("session_token = ? AND expires_at > ?", token, now).First(&s).Error
	return s, err
}
