package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"skillbox/internal/models"
	"skillbox/internal/utils/logger"
)

// Catalog manages courses and their file records. File bytes live in the
// object store; the catalog only tracks metadata and storage keys.
type Catalog struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db, log: logger.New("catalog")}
}

// CourseFilter narrows ListCourses. Zero values mean no filter.
type CourseFilter struct {
	Category     string
	SolutionArea string
	SolutionPlay string
	CourseType   string
	Level        string
	Language     string
	Search       string
	Limit        int
	Offset       int
}

func (c *Catalog) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := c.db.WithContext(ctx).Preload("Files").First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Catalog) ListCourses(ctx context.Context, f CourseFilter) ([]models.Course, int64, error) {
	q := c.db.WithContext(ctx).Model(&models.Course{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.SolutionArea != "" {
		q = q.Where("solution_area = ?", f.SolutionArea)
	}
	if f.SolutionPlay != "" {
		q = q.Where("solution_play = ?", f.SolutionPlay)
	}
	if f.CourseType != "" {
		q = q.Where("course_type = ?", f.CourseType)
	}
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var courses []models.Course
	if err := q.Preload("Files").Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (c *Catalog) CreateCourse(ctx context.Context, actor *models.User, course *models.Course) error {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleContentAdmin {
		return ErrForbidden
	}
	course.CreatedBy = actor.ID
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		return c.log.Error("failed to create course", err)
	}
	c.log.Success("course %s created by %s", course.ID, actor.ID)
	return nil
}

func (c *Catalog) UpdateCourse(ctx context.Context, actor *models.User, id string, updates map[string]interface{}) (*models.Course, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleContentAdmin {
		return nil, ErrForbidden
	}
	res := c.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return c.GetCourse(ctx, id)
}

// DeleteCourse removes the course, its file records, and its access requests
// in one transaction. Download events are history and stay. It returns the
// storage keys of the removed files so the caller can delete the objects.
func (c *Catalog) DeleteCourse(ctx context.Context, actor *models.User, id string) ([]string, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleContentAdmin {
		return nil, ErrForbidden
	}

	var keys []string
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var files []models.CourseFile
		if err := tx.Where("course_id = ?", id).Find(&files).Error; err != nil {
			return err
		}
		for _, f := range files {
			keys = append(keys, f.StorageKey)
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.AccessRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Course{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	c.log.Warn("course %s deleted by %s (%d files)", id, actor.ID, len(keys))
	return keys, nil
}

func (c *Catalog) AddFile(ctx context.Context, actor *models.User, file *models.CourseFile) error {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleContentAdmin {
		return ErrForbidden
	}
	var count int64
	if err := c.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", file.CourseID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	file.UploadedBy = actor.ID
	if err := c.db.WithContext(ctx).Create(file).Error; err != nil {
		return c.log.Error("failed to record course file", err)
	}
	return nil
}

// RemoveFile deletes the file record and returns its storage key for object
// cleanup.
func (c *Catalog) RemoveFile(ctx context.Context, actor *models.User, fileID string) (string, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleContentAdmin {
		return "", ErrForbidden
	}
	var file models.CourseFile
	err := c.db.WithContext(ctx).First(&file, "id = ?", fileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if err := c.db.WithContext(ctx).Delete(&models.CourseFile{}, "id = ?", fileID).Error; err != nil {
		return "", err
	}
	return file.StorageKey, nil
}

// GetFile returns a file record scoped to its course. A file id that exists
// under a different course is still not found.
func (c *Catalog) GetFile(ctx context.Context, courseID, fileID string) (*models.CourseFile, error) {
	var file models.CourseFile
	err := c.db.WithContext(ctx).
		Where("id = ? AND course_id = ?", fileID, courseID).
		First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}
