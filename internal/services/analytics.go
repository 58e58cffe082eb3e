package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skillbox/internal/models"
)

// Analytics aggregates the append-only history tables into the numbers the
// stakeholder dashboard shows. Read-only; access control lives in the routes.
type Analytics struct {
	db *gorm.DB
}

func NewAnalytics(db *gorm.DB) *Analytics {
	return &Analytics{db: db}
}

type Overview struct {
	TotalUsers      int64 `json:"totalUsers"`
	TotalPartners   int64 `json:"totalPartners"`
	TotalCourses    int64 `json:"totalCourses"`
	TotalDownloads  int64 `json:"totalDownloads"`
	TotalExecutions int64 `json:"totalExecutions"`
	PendingRequests int64 `json:"pendingRequests"`
	LearnersTrained int64 `json:"learnersTrained"`
}

func (a *Analytics) Overview(ctx context.Context) (*Overview, error) {
	db := a.db.WithContext(ctx)
	var o Overview

	if err := db.Model(&models.User{}).Count(&o.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RolePartner).Count(&o.TotalPartners).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Course{}).Count(&o.TotalCourses).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.DownloadEvent{}).Count(&o.TotalDownloads).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Execution{}).Count(&o.TotalExecutions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.AccessRequest{}).Where("status = ?", models.RequestStatusPending).Count(&o.PendingRequests).Error; err != nil {
		return nil, err
	}
	err := db.Model(&models.Execution{}).
		Where("attendance_submitted = ?", true).
		Select("COALESCE(SUM(actual_attendees), 0)").
		Scan(&o.LearnersTrained).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// DownloadsByDay buckets download events per calendar day over the trailing
// window.
func (a *Analytics) DownloadsByDay(ctx context.Context, days int) ([]DayCount, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	var rows []DayCount
	err := a.db.WithContext(ctx).Model(&models.DownloadEvent{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type CourseCount struct {
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Count    int64  `json:"count"`
}

// TopCourses ranks courses by download volume. Courses deleted since the
// downloads happened show up with an empty title.
func (a *Analytics) TopCourses(ctx context.Context, limit int) ([]CourseCount, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []CourseCount
	err := a.db.WithContext(ctx).Model(&models.DownloadEvent{}).
		Select("download_events.course_id AS course_id, COALESCE(courses.title, '') AS title, COUNT(*) AS count").
		Joins("LEFT JOIN courses ON courses.id = download_events.course_id").
		Group("download_events.course_id, courses.title").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type OrgLearners struct {
	Organization string `json:"organization"`
	Learners     int64  `json:"learners"`
	Executions   int64  `json:"executions"`
}

func (a *Analytics) LearnersByOrganization(ctx context.Context) ([]OrgLearners, error) {
	var rows []OrgLearners
	err := a.db.WithContext(ctx).Model(&models.Execution{}).
		Select("organization, COALESCE(SUM(actual_attendees), 0) AS learners, COUNT(*) AS executions").
		Where("attendance_submitted = ?", true).
		Group("organization").
		Order("learners DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type CourseLearners struct {
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Learners int64  `json:"learners"`
}

func (a *Analytics) LearnersByCourse(ctx context.Context) ([]CourseLearners, error) {
	var rows []CourseLearners
	err := a.db.WithContext(ctx).Model(&models.Execution{}).
		Select("executions.course_id AS course_id, COALESCE(courses.title, '') AS title, COALESCE(SUM(actual_attendees), 0) AS learners").
		Joins("LEFT JOIN courses ON courses.id = executions.course_id").
		Where("attendance_submitted = ?", true).
		Group("executions.course_id, courses.title").
		Order("learners DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
