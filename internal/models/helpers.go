package models

import (
	"gorm.io/gorm"
)

// GetUserByEmail retrieves a user from the database by email
func GetUserByEmail(email string, db *gorm.DB) (*User, error) {
	user := &User{}
	if err := db.Where("email = ?", email).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserKey retrieves the password key row for a user
func GetUserKey(userID string, db *gorm.DB) (*UserKey, error) {
	key := &UserKey{}
	if err := db.Where("user_id = ?", userID).First(key).Error; err != nil {
		return nil, err
	}
	return key, nil
}
