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

// GetSessionByToken retrieves a live auth session by its access token
func GetSessionByToken(token string, db *gorm.DB) (*AuthSession, error) {
	session := &AuthSession{}
	if err := db.Where("token = ?", token).First(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}
