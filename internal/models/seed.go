package models

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"skillbox/internal/config"
	console "skillbox/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("SEEDER")

// CreateAdminFromEnv bootstraps the first admin account so the approval and
// decision endpoints are reachable on a fresh install. No-op when an admin
// already exists.
func CreateAdminFromEnv(db *gorm.DB, cfg *config.Config) error {
	var count int64
	db.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD not set")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	admin := User{
		Email:        cfg.Seed.AdminEmail,
		Password:     string(hashedPassword),
		FullName:     cfg.Seed.AdminName,
		Organization: cfg.Seed.AdminOrg,
		Role:         RoleAdmin,
		IsApproved:   true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %v", err)
	}

	log.Success("Admin user created: %s", admin.Email)
	return nil
}
