package services

import (
	"context"
	"testing"
	"time"

	"skillbox/internal/entitlement"
	"skillbox/internal/models"
)

func TestAnalyticsOverviewAndAggregates(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	execs := NewExecutions(db, ledger, entitlement.ModePortal)
	analytics := NewAnalytics(db)
	ctx := context.Background()

	seedUser(t, db, models.RoleAdmin, true)
	p1 := seedUser(t, db, models.RolePartner, true)
	p2 := seedUser(t, db, models.RolePartner, true)
	p2.Organization = "Fabrikam Learning"
	if err := db.Save(p2).Error; err != nil {
		t.Fatalf("update org: %v", err)
	}

	c1 := seedCourse(t, db)
	c2 := seedCourse(t, db)
	f1 := seedFile(t, db, c1.ID)

	// Two downloads of c1, one of c2.
	for _, pair := range []struct{ user, course string }{
		{p1.ID, c1.ID}, {p2.ID, c1.ID}, {p1.ID, c2.ID},
	} {
		ev := &models.DownloadEvent{UserID: pair.user, CourseID: pair.course, FileID: f1.ID}
		if err := db.Create(ev).Error; err != nil {
			t.Fatalf("seed download: %v", err)
		}
	}

	if _, err := ledger.Submit(ctx, p1, c2.ID, "pending one"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	run := func(p *models.User, course string, attendees int) {
		e := &models.Execution{CourseID: course, ExecutionDate: time.Now().AddDate(0, 0, -3), Location: "Online"}
		if err := execs.Schedule(ctx, p, e); err != nil {
			t.Fatalf("schedule: %v", err)
		}
		if _, err := execs.SubmitAttendance(ctx, p, e.ID, AttendanceReport{ActualAttendees: attendees, CompletionRate: 90}); err != nil {
			t.Fatalf("attendance: %v", err)
		}
	}
	run(p1, c1.ID, 12)
	run(p2, c1.ID, 30)

	o, err := analytics.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if o.TotalUsers != 3 || o.TotalPartners != 2 {
		t.Fatalf("user counts: %+v", o)
	}
	if o.TotalCourses != 2 || o.TotalDownloads != 3 || o.TotalExecutions != 2 {
		t.Fatalf("activity counts: %+v", o)
	}
	if o.PendingRequests != 1 {
		t.Fatalf("pending requests = %d, want 1", o.PendingRequests)
	}
	if o.LearnersTrained != 42 {
		t.Fatalf("learners trained = %d, want 42", o.LearnersTrained)
	}

	top, err := analytics.TopCourses(ctx, 5)
	if err != nil {
		t.Fatalf("top courses: %v", err)
	}
	if len(top) != 2 || top[0].CourseID != c1.ID || top[0].Count != 2 {
		t.Fatalf("top courses wrong: %+v", top)
	}

	days, err := analytics.DownloadsByDay(ctx, 7)
	if err != nil {
		t.Fatalf("downloads by day: %v", err)
	}
	var sum int64
	for _, d := range days {
		sum += d.Count
	}
	if sum != 3 {
		t.Fatalf("daily buckets sum to %d, want 3", sum)
	}

	orgs, err := analytics.LearnersByOrganization(ctx)
	if err != nil {
		t.Fatalf("learners by org: %v", err)
	}
	if len(orgs) != 2 || orgs[0].Learners != 30 {
		t.Fatalf("org aggregates wrong: %+v", orgs)
	}

	byCourse, err := analytics.LearnersByCourse(ctx)
	if err != nil {
		t.Fatalf("learners by course: %v", err)
	}
	if len(byCourse) != 1 || byCourse[0].CourseID != c1.ID || byCourse[0].Learners != 42 {
		t.Fatalf("course aggregates wrong: %+v", byCourse)
	}
}
