package model

import (
	"gorm.io/gorm"
)

// Location is a named place alerts can be attached to.
// @Description Location information
type Location struct {
	ID        uint     `json:"id" gorm:"primaryKey" example:"1"`
	Name      string   `json:"name" gorm:"type:varchar(100);uniqueIndex;not null" validate:"notblank,max=100" example:"New York"`
	Address   string   `json:"address" gorm:"type:text" example:"Manhattan, NY"`
	Latitude  *float64 `json:"latitude" gorm:"type:decimal(9,6)" validate:"omitnil,gte=-90,lte=90" example:"40.7128"`
	Longitude *float64 `json:"longitude" gorm:"type:decimal(9,6)" validate:"omitnil,gte=-180,lte=180" example:"-74.006"`
	Alerts    []Alert  `json:"-" gorm:"many2many:location_alerts;constraint:OnDelete:CASCADE;"`
}

var locationMessages = map[string]string{
	"name.notblank": "Location name cannot be empty.",
	"name.max":      "Location name cannot be longer than 100 characters.",
	"latitude.gte":  "Latitude must be between -90 and 90.",
	"latitude.lte":  "Latitude must be between -90 and 90.",
	"longitude.gte": "Longitude must be between -180 and 180.",
	"longitude.lte": "Longitude must be between -180 and 180.",
}

// Validate runs every field rule and returns a *ValidationError on the first violation.
func (l *Location) Validate() error {
	return validateStruct(l, locationMessages)
}

// BeforeSave refuses invalid records before any write.
func (l *Location) BeforeSave(tx *gorm.DB) error {
	return l.Validate()
}

// LocationKey identifies the location for alert filters.
func (l Location) LocationKey() uint {
	return l.ID
}

func (l Location) String() string {
	return l.Name
}

// LocationDefaultOrder is the listing order for locations.
const LocationDefaultOrder = "locations.name ASC"

// AttachAlerts links alerts to a location through the location_alerts join
// table. It is the only place the association is written, so both
// Location.Alerts and Alert.Locations always read the same rows.
func AttachAlerts(tx *gorm.DB, location *Location, alerts ...*Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(alerts))
	for _, a := range alerts {
		values = append(values, a)
	}
	return tx.Model(location).Association("Alerts").Append(values...)
}
