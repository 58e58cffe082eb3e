package models

import (
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	Base
	Title               string       `gorm:"not null" json:"title" validate:"required,min=2"`
	Description         string       `gorm:"not null" json:"description" validate:"required"`
	Category            string       `gorm:"not null;index" json:"category" validate:"required"`
	SolutionArea        string       `gorm:"not null;index" json:"solutionArea" validate:"required"`
	SolutionPlay        string       `gorm:"index" json:"solutionPlay,omitempty"`
	CourseType          string       `gorm:"not null;index" json:"courseType" validate:"required"`
	Level               string       `gorm:"not null;index" json:"level" validate:"required"`
	Language            string       `gorm:"not null;index" json:"language" validate:"required"`
	TargetRole          string       `json:"targetRole,omitempty"`
	TargetAudience      string       `json:"targetAudience,omitempty"`
	Duration            string       `json:"duration,omitempty"`
	CertificationCourse bool         `json:"certificationCourse"`
	HandsOnLab          bool         `json:"handsOnLab"`
	MultilingualAudio   bool         `json:"multilingualAudio"`
	CreatedBy           string       `gorm:"type:uuid" json:"createdBy,omitempty"`
	Files               []CourseFile `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"files,omitempty"`
}

type CourseFile struct {
	Base
	CourseID     string  `gorm:"type:uuid;not null;index" json:"courseId" validate:"required,uuid"`
	Course       *Course `json:"course,omitempty"`
	OriginalName string  `gorm:"not null" json:"originalName" validate:"required"`
	// StorageKey locates the object in the storage backend; download URLs
	// are minted from it on demand, never stored.
	StorageKey string `gorm:"not null" json:"-"`
	FileType   string `gorm:"not null" json:"fileType" validate:"required"`
	Size       int64  `json:"size"`
	UploadedBy string `gorm:"type:uuid" json:"uploadedBy,omitempty"`
}

// AccessRequest is one partner's request for one course under the per-course
// access model. The partial unique index enforces at most one pending request
// per (user, course) pair at the storage layer, so concurrent submits cannot
// both land.
type AccessRequest struct {
	Base
	UserID     string        `gorm:"type:uuid;not null;index;uniqueIndex:uniq_pending_access_request,where:status = 'pending'" json:"userId"`
	User       *User         `json:"user,omitempty"`
	CourseID   string        `gorm:"type:uuid;not null;index;uniqueIndex:uniq_pending_access_request" json:"courseId"`
	Course     *Course       `json:"course,omitempty"`
	Reason     string        `gorm:"not null" json:"reason"`
	Status     RequestStatus `gorm:"not null;default:'pending';index" json:"status"`
	AdminNotes string        `json:"adminNotes,omitempty"`
	ReviewedBy string        `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	DecidedAt  *time.Time    `json:"decidedAt,omitempty"`
}

// DownloadEvent is append-only analytics history. Rows are never mutated or
// deleted, not even when the course goes away.
type DownloadEvent struct {
	Base
	UserID   string `gorm:"type:uuid;not null;index" json:"userId"`
	CourseID string `gorm:"type:uuid;not null;index" json:"courseId"`
	FileID   string `gorm:"type:uuid;not null" json:"fileId"`
}

type Execution struct {
	Base
	UserID            string    `gorm:"type:uuid;not null;index" json:"userId"`
	User              *User     `json:"user,omitempty"`
	Organization      string    `gorm:"not null;index" json:"organization"`
	CourseID          string    `gorm:"type:uuid;not null;index" json:"courseId"`
	Course            *Course   `json:"course,omitempty"`
	ExecutionDate     time.Time `gorm:"not null" json:"executionDate"`
	Location          string    `gorm:"not null" json:"location"`
	ExpectedAttendees int       `json:"expectedAttendees"`
	Notes             string    `json:"notes,omitempty"`

	Status                ExecutionStatus `gorm:"not null;default:'scheduled'" json:"status"`
	AttendanceSubmitted   bool            `gorm:"not null;default:false" json:"attendanceSubmitted"`
	ActualAttendees       int             `json:"actualAttendees"`
	CompletionRate        float64         `json:"completionRate"`
	FeedbackSummary       string          `json:"feedbackSummary,omitempty"`
	LearnerDetails        datatypes.JSON  `gorm:"type:jsonb" json:"learnerDetails,omitempty"`
	AttendanceSubmittedAt *time.Time      `json:"attendanceSubmittedAt,omitempty"`
}
