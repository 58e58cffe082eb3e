package models

import "time"

type User struct {
	Base
	Email        string   `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string   `gorm:"not null" json:"-"`
	FullName     string   `gorm:"not null" json:"fullName"`
	Organization string   `gorm:"not null" json:"organization"`
	Domain       string   `json:"domain,omitempty"`
	Role         UserRole `gorm:"not null;default:'partner'" json:"role" validate:"required,user_role"`
	PartnerType  string   `json:"partnerType,omitempty"`
	// IsApproved is the portal-level gate: under portal mode an approved
	// partner may download from any course.
	IsApproved     bool            `gorm:"not null;default:false" json:"isApproved"`
	AccessRequests []AccessRequest `gorm:"foreignKey:UserID" json:"accessRequests,omitempty"`
}

// AuthSession is one login. The terms flag is session-scoped: it dies with
// the row on logout and is rebuilt from TermsAcceptance on the next login.
type AuthSession struct {
	Base
	UserID        string    `gorm:"type:uuid;not null;index" json:"userId"`
	User          *User     `json:"user,omitempty"`
	Token         string    `gorm:"uniqueIndex;not null" json:"-"`
	Refresh       string    `gorm:"not null" json:"-"`
	IPAddress     string    `json:"ipAddress,omitempty"`
	UserAgent     string    `json:"userAgent,omitempty"`
	TermsAccepted bool      `gorm:"not null;default:false" json:"termsAccepted"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// TermsAcceptance is the durable per-account record behind the terms-of-use
// gate. At most one row per user; deleted when the user declines.
type TermsAcceptance struct {
	Base
	UserID     string    `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	User       *User     `json:"user,omitempty"`
	AcceptedAt time.Time `gorm:"not null" json:"acceptedAt"`
}
