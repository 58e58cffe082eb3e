package models

import (
	"skillbox/internal/events"

	"gorm.io/gorm"
)

func (r *AccessRequest) AfterCreate(tx *gorm.DB) error {
	events.Emit("access_requests.submitted", r)
	return nil
}

func (e *DownloadEvent) AfterCreate(tx *gorm.DB) error {
	events.Emit("downloads.recorded", e)
	return nil
}

func (u *User) AfterCreate(tx *gorm.DB) error {
	events.Emit("users.created", u)
	return nil
}
