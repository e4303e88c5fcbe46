package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Profile holds per-user preferences; exactly one exists for every user.
type Profile struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User       *User     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	LocationID *uint     `json:"location_id"`
	Location   *Location `json:"location,omitempty" gorm:"constraint:OnDelete:SET NULL;"`
}

// DisplayName renders "<username>'s profile"; User must be loaded.
func (p Profile) DisplayName() string {
	if p.User == nil {
		return "profile"
	}
	return fmt.Sprintf("%s's profile", p.User.Username)
}

// CreateUserWithProfile inserts the user and its profile in one transaction.
// Registration calls this instead of relying on a creation hook.
func CreateUserWithProfile(db *gorm.DB, user *User) (Profile, error) {
	var profile Profile
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile = Profile{UserID: user.ID}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// SetProfileLocation points the profile at a location, or clears it when locationID is nil.
func SetProfileLocation(db *gorm.DB, profile *Profile, locationID *uint) error {
	if locationID != nil {
		var loc Location
		if err := db.First(&loc, *locationID).Error; err != nil {
			return err
		}
		profile.Location = &loc
	} else {
		profile.Location = nil
	}
	profile.LocationID = locationID
	return db.Model(profile).Update("location_id", locationID).Error
}
