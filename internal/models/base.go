package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

type UserRole string

const (
	RolePartner      UserRole = "partner"
	RoleContentAdmin UserRole = "content_admin"
	RoleStakeholder  UserRole = "ms_stakeholder"
	RoleAdmin        UserRole = "admin"
)

// IsStaff reports whether the role bypasses entitlement checks. Everything
// except the training partner role is operational staff.
func (r UserRole) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleContentAdmin, RoleStakeholder:
		return true
	default:
		return false
	}
}

// IsValidUserRole checks if a given role is valid
func IsValidUserRole(role UserRole) bool {
	switch role {
	case RolePartner, RoleContentAdmin, RoleStakeholder, RoleAdmin:
		return true
	default:
		return false
	}
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Terminal reports whether the status ends the request lifecycle. Terminal
// requests are immutable history.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

type ExecutionStatus string

const (
	ExecutionStatusScheduled ExecutionStatus = "scheduled"
	ExecutionStatusCompleted ExecutionStatus = "completed"
)
