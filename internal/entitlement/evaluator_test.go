package entitlement

import (
	"errors"
	"testing"
	"time"

	"skillbox/internal/models"
)

func partner(approved bool) *models.User {
	return &models.User{Role: models.RolePartner, IsApproved: approved}
}

func request(status models.RequestStatus) *models.AccessRequest {
	req := &models.AccessRequest{Status: status}
	if status.Terminal() {
		now := time.Now()
		req.DecidedAt = &now
	}
	return req
}

func TestStaffRolesAlwaysGranted(t *testing.T) {
	course := &models.Course{Title: "Data Security Fundamentals"}
	staff := []models.UserRole{models.RoleAdmin, models.RoleContentAdmin, models.RoleStakeholder}

	for _, role := range staff {
		for _, mode := range []Mode{ModePortal, ModePerCourse} {
			user := &models.User{Role: role, IsApproved: false}
			got, err := Evaluate(user, course, nil, mode)
			if err != nil {
				t.Fatalf("Evaluate(%s, %s): %v", role, mode, err)
			}
			if got != Granted {
				t.Errorf("Evaluate(%s, %s) = %s, want %s", role, mode, got, Granted)
			}
		}
	}
}

func TestPortalModePartner(t *testing.T) {
	course := &models.Course{Title: "Modern SecOps"}

	got, err := Evaluate(partner(true), course, nil, ModePortal)
	if err != nil || got != Granted {
		t.Fatalf("approved partner: got %s, %v; want %s", got, err, Granted)
	}

	// Request history is irrelevant under portal mode.
	got, err = Evaluate(partner(false), course, request(models.RequestStatusApproved), ModePortal)
	if err != nil || got != Denied {
		t.Fatalf("unapproved partner: got %s, %v; want %s", got, err, Denied)
	}
}

func TestPerCourseModePartner(t *testing.T) {
	course := &models.Course{Title: "AI Workforce"}

	cases := []struct {
		name   string
		latest *models.AccessRequest
		want   Decision
	}{
		{"no request", nil, Denied},
		{"pending request", request(models.RequestStatusPending), Pending},
		{"approved request", request(models.RequestStatusApproved), Granted},
		{"rejected request", request(models.RequestStatusRejected), Denied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(partner(false), course, tc.latest, ModePerCourse)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}

	// Portal approval does not leak into per-course mode.
	got, err := Evaluate(partner(true), course, nil, ModePerCourse)
	if err != nil || got != Denied {
		t.Fatalf("approved account without request: got %s, %v; want %s", got, err, Denied)
	}
}

func TestUnknownCourseIsNotDenied(t *testing.T) {
	_, err := Evaluate(partner(true), nil, nil, ModePortal)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("got %v, want ErrCourseNotFound", err)
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("portal"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseMode("per_course"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseMode("both"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
