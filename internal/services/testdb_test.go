package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skillbox/internal/models"
)

// openTestDB returns an isolated in-memory database with the full schema,
// configured like production (TranslateError on, so the partial unique index
// surfaces as gorm.ErrDuplicatedKey). A single connection keeps concurrent
// test goroutines honest without "database is locked" noise.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CourseFile{},
		&models.AccessRequest{},
		&models.DownloadEvent{},
		&models.Execution{},
		&models.AuthSession{},
		&models.TermsAcceptance{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role models.UserRole, approved bool) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("test-password"), bcrypt.MinCost)
	u := &models.User{
		Email:        string(role) + "-" + time.Now().Format("150405.000000000") + "@example.com",
		Password:     string(hash),
		FullName:     "Test " + string(role),
		Organization: "Contoso Partners",
		Role:         role,
		IsApproved:   approved,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedCourse(t *testing.T, db *gorm.DB) *models.Course {
	t.Helper()
	c := &models.Course{
		Title:        "Azure Fundamentals Delivery Kit",
		Description:  "Instructor kit for partner-led AZ-900 deliveries.",
		Category:     "Azure",
		SolutionArea: "Infrastructure",
		CourseType:   "Instructor-led",
		Level:        "Beginner",
		Language:     "English",
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return c
}

func seedFile(t *testing.T, db *gorm.DB, courseID string) *models.CourseFile {
	t.Helper()
	f := &models.CourseFile{
		CourseID:     courseID,
		OriginalName: "delivery-guide.pdf",
		StorageKey:   "courses/" + courseID + "/delivery-guide.pdf",
		FileType:     "pdf",
		Size:         2048,
	}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("seed file: %v", err)
	}
	return f
}
