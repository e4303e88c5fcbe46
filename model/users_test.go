package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	return setupTestDB(t, "user", &User{}, &Location{}, &Profile{})
}

func TestUserModel_Create(t *testing.T) {
	db := setupUserTestDB(t)

	user := User{Username: "tester", Email: "test@test.com", Password: "hashed_password"}
	err := db.Create(&user).Error
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Zero(t, user.FailedAttempts)
	assert.Nil(t, user.LockedUntil)
}

func TestUserModel_UniqueUsername(t *testing.T) {
	db := setupUserTestDB(t)

	require.NoError(t, db.Create(&User{Username: "dup", Password: "hash"}).Error)
	err := db.Create(&User{Username: "dup", Password: "hash"}).Error
	assert.Error(t, err)
}

func TestUserModel_SoftDelete(t *testing.T) {
	db := setupUserTestDB(t)

	user := User{Username: "gone", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Delete(&user).Error)

	var found User
	err := db.First(&found, user.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = db.Unscoped().First(&found, user.ID).Error
	assert.NoError(t, err)
}

func TestCreateUserWithProfile(t *testing.T) {
	db := setupUserTestDB(t)

	user := User{Username: "alice", Password: "hash"}
	profile, err := CreateUserWithProfile(db, &user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotZero(t, profile.ID)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Nil(t, profile.LocationID)

	var count int64
	require.NoError(t, db.Model(&Profile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateUserWithProfile_RollsBackOnFailure(t *testing.T) {
	db := setupUserTestDB(t)

	first := User{Username: "bob", Password: "hash"}
	_, err := CreateUserWithProfile(db, &first)
	require.NoError(t, err)

	second := User{Username: "bob", Password: "hash"}
	_, err = CreateUserWithProfile(db, &second)
	assert.Error(t, err)

	var users, profiles int64
	db.Model(&User{}).Count(&users)
	db.Model(&Profile{}).Count(&profiles)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), profiles)
}
