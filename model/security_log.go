package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityLog represents a persisted security or request event
type SecurityLog struct {
	gorm.Model
	EventType string `json:"event_type" gorm:"column:event_type;type:varchar(64);index"`
	UserID    string `json:"user_id" gorm:"column:user_id;type:varchar(64);index"`
	Username  string `json:"username" gorm:"column:username;type:varchar(150);index"`
	IP        string `json:"ip" gorm:"column:ip;type:varchar(45)"`
	// GeoLocation is "City/Country" resolved from IP when a GeoIP database is configured.
	GeoLocation string         `json:"geo_location" gorm:"column:geo_location;type:varchar(255)"`
	UserAgent   string         `json:"user_agent" gorm:"column:user_agent;type:varchar(512)"`
	Message     string         `json:"message" gorm:"column:message;type:text"`
	Details     datatypes.JSON `json:"details" gorm:"column:details"`
}
