package services

import (
	"context"
	"errors"
	"testing"

	"skillbox/internal/models"
)

func TestCatalogRoleGates(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalog(db)
	ctx := context.Background()

	partner := seedUser(t, db, models.RolePartner, true)
	stakeholder := seedUser(t, db, models.RoleStakeholder, true)

	course := &models.Course{
		Title:        "Copilot Adoption Workshop",
		Description:  "Half-day workshop kit.",
		Category:     "Modern Work",
		SolutionArea: "Modern Work",
		CourseType:   "Workshop",
		Level:        "Intermediate",
		Language:     "English",
	}
	if err := catalog.CreateCourse(ctx, partner, course); !errors.Is(err, ErrForbidden) {
		t.Fatalf("partner create: want ErrForbidden, got %v", err)
	}
	if err := catalog.CreateCourse(ctx, stakeholder, course); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stakeholder create: want ErrForbidden, got %v", err)
	}

	contentAdmin := seedUser(t, db, models.RoleContentAdmin, true)
	if err := catalog.CreateCourse(ctx, contentAdmin, course); err != nil {
		t.Fatalf("content admin create: %v", err)
	}
	if course.CreatedBy != contentAdmin.ID {
		t.Fatalf("createdBy = %q, want %q", course.CreatedBy, contentAdmin.ID)
	}
}

func TestListCoursesFilters(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalog(db)
	ctx := context.Background()
	admin := seedUser(t, db, models.RoleAdmin, true)

	mk := func(title, category, level string) {
		c := &models.Course{
			Title:        title,
			Description:  "desc",
			Category:     category,
			SolutionArea: "Infrastructure",
			CourseType:   "Self-paced",
			Level:        level,
			Language:     "English",
		}
		if err := catalog.CreateCourse(ctx, admin, c); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	mk("Azure Networking Deep Dive", "Azure", "Advanced")
	mk("Azure Storage Basics", "Azure", "Beginner")
	mk("Fabric Analytics Intro", "Data & AI", "Beginner")

	got, total, err := catalog.ListCourses(ctx, CourseFilter{Category: "Azure"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("category filter: total=%d len=%d, want 2/2", total, len(got))
	}

	got, total, err = catalog.ListCourses(ctx, CourseFilter{Category: "Azure", Level: "Beginner"})
	if err != nil {
		t.Fatalf("list by category+level: %v", err)
	}
	if total != 1 || got[0].Title != "Azure Storage Basics" {
		t.Fatalf("combined filter wrong: %+v", got)
	}

	got, _, err = catalog.ListCourses(ctx, CourseFilter{Search: "analytics"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Fabric Analytics Intro" {
		t.Fatalf("search wrong: %+v", got)
	}

	got, total, err = catalog.ListCourses(ctx, CourseFilter{Limit: 2})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if total != 3 || len(got) != 2 {
		t.Fatalf("pagination: total=%d len=%d, want 3/2", total, len(got))
	}
}

func TestDeleteCourseCascades(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalog(db)
	ledger := NewLedger(db)
	ctx := context.Background()

	admin := seedUser(t, db, models.RoleAdmin, true)
	partner := seedUser(t, db, models.RolePartner, false)
	course := seedCourse(t, db)
	file := seedFile(t, db, course.ID)

	if _, err := ledger.Submit(ctx, partner, course.ID, "please"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// A download already happened; its history must outlive the course.
	if err := db.Create(&models.DownloadEvent{UserID: partner.ID, CourseID: course.ID, FileID: file.ID}).Error; err != nil {
		t.Fatalf("seed download event: %v", err)
	}

	keys, err := catalog.DeleteCourse(ctx, admin, course.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(keys) != 1 || keys[0] != file.StorageKey {
		t.Fatalf("returned keys = %v, want [%s]", keys, file.StorageKey)
	}

	var courses, files, requests, events int64
	db.Model(&models.Course{}).Where("id = ?", course.ID).Count(&courses)
	db.Model(&models.CourseFile{}).Where("course_id = ?", course.ID).Count(&files)
	db.Model(&models.AccessRequest{}).Where("course_id = ?", course.ID).Count(&requests)
	db.Model(&models.DownloadEvent{}).Where("course_id = ?", course.ID).Count(&events)

	if courses != 0 || files != 0 || requests != 0 {
		t.Fatalf("cascade incomplete: courses=%d files=%d requests=%d", courses, files, requests)
	}
	if events != 1 {
		t.Fatalf("download history deleted with course: events=%d, want 1", events)
	}

	if _, err := catalog.DeleteCourse(ctx, admin, course.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestRemoveFileReturnsStorageKey(t *testing.T) {
	db := openTestDB(t)
	catalog := NewCatalog(db)
	ctx := context.Background()

	admin := seedUser(t, db, models.RoleAdmin, true)
	partner := seedUser(t, db, models.RolePartner, true)
	course := seedCourse(t, db)
	file := seedFile(t, db, course.ID)

	if _, err := catalog.RemoveFile(ctx, partner, file.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("partner remove: want ErrForbidden, got %v", err)
	}

	key, err := catalog.RemoveFile(ctx, admin, file.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if key != file.StorageKey {
		t.Fatalf("key = %q, want %q", key, file.StorageKey)
	}
	if _, err := catalog.GetFile(ctx, course.ID, file.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("file still resolvable after removal: %v", err)
	}
}
