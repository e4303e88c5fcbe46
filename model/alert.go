package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Severity classifies an alert's importance.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Severities lists the accepted severity values in display order.
var Severities = []Severity{SeverityInfo, SeverityWarning, SeverityError}

// Valid reports whether s is one of the enumerated severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Label is the human readable form used by the web pages.
func (s Severity) Label() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	}
	return string(s)
}

// Alert represents a notice shown on the board
// @Description Alert with its associated locations
type Alert struct {
	ID        uint       `json:"id" gorm:"primaryKey" example:"1"`
	Title     string     `json:"title" gorm:"type:varchar(100);not null" validate:"notblank,max=100" example:"Flood warning"`
	Message   string     `json:"message" gorm:"type:text;not null" validate:"notblank" example:"River levels are rising"`
	Severity  Severity   `json:"severity" gorm:"type:varchar(10);not null;index" validate:"oneof=info warning error" example:"warning"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
	IsActive  *bool      `json:"is_active" gorm:"not null;default:true;index" example:"true"`
	Locations []Location `json:"locations" gorm:"many2many:location_alerts;constraint:OnDelete:CASCADE;"`
}

var alertMessages = map[string]string{
	"title.notblank":   "Title cannot be empty or whitespace only.",
	"title.max":        "Title cannot be longer than 100 characters.",
	"message.notblank": "Message cannot be empty or whitespace only.",
	"severity.oneof":   "Invalid alert severity.",
}

// NewAlert returns an active alert with the given fields; an empty severity
// falls back to info.
func NewAlert(title, message string, severity Severity) Alert {
	if severity == "" {
		severity = SeverityInfo
	}
	a := Alert{Title: title, Message: message, Severity: severity}
	a.SetActive(true)
	return a
}

// Active reports whether the alert is shown as current. An unset flag counts
// as active.
func (a Alert) Active() bool {
	return a.IsActive == nil || *a.IsActive
}

// SetActive sets the active flag.
func (a *Alert) SetActive(active bool) {
	a.IsActive = &active
}

// Validate runs every field rule and returns a *ValidationError on the first violation.
func (a *Alert) Validate() error {
	return validateStruct(a, alertMessages)
}

// BeforeSave applies the severity and active defaults and refuses invalid
// records.
func (a *Alert) BeforeSave(tx *gorm.DB) error {
	if a.Severity == "" {
		a.Severity = SeverityInfo
	}
	if a.IsActive == nil {
		a.SetActive(true)
	}
	return a.Validate()
}

func (a Alert) String() string {
	return fmt.Sprintf("%s (%s)", a.Title, a.Severity)
}

// AlertDefaultOrder is the listing order for alerts: newest first.
const AlertDefaultOrder = "alerts.created_at DESC, alerts.id DESC"
