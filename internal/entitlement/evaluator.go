// Package entitlement holds the one place where download policy is decided.
// Role checks scattered across handlers all funnel into Evaluate, which maps
// a (user, course, latest access request) snapshot onto a decision under the
// configured access model.
package entitlement

import (
	"errors"
	"fmt"

	"skillbox/internal/models"
)

// Mode selects which of the two access models the portal runs under. The two
// models are deliberately not merged: which one (or both) the product wants
// is an open question, so the mode is explicit configuration.
type Mode string

const (
	// ModePortal grants an approved partner account access to every course.
	ModePortal Mode = "portal"
	// ModePerCourse requires an approved access request per course.
	ModePerCourse Mode = "per_course"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePortal, ModePerCourse:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown access mode %q (want %q or %q)", s, ModePortal, ModePerCourse)
	}
}

// Decision is the outcome of an entitlement evaluation.
type Decision string

const (
	Granted Decision = "granted"
	Pending Decision = "pending"
	Denied  Decision = "denied"
)

// ErrCourseNotFound distinguishes "no such course" from "no access"; callers
// must not collapse the two.
var ErrCourseNotFound = errors.New("course not found")

// Evaluate decides whether user may download course content. It is pure:
// callers pass already-fetched snapshots and latest is the most recent
// access request for (user, course), or nil if none exists. latest is only
// consulted in per-course mode.
func Evaluate(user *models.User, course *models.Course, latest *models.AccessRequest, mode Mode) (Decision, error) {
	if course == nil {
		return "", ErrCourseNotFound
	}

	if user.Role.IsStaff() {
		return Granted, nil
	}

	switch mode {
	case ModePortal:
		// Binary and account-wide: no pending state exists in this mode.
		if user.IsApproved {
			return Granted, nil
		}
		return Denied, nil

	case ModePerCourse:
		if latest == nil {
			return Denied, nil
		}
		switch latest.Status {
		case models.RequestStatusApproved:
			return Granted, nil
		case models.RequestStatusPending:
			return Pending, nil
		default:
			return Denied, nil
		}

	default:
		return "", fmt.Errorf("unknown access mode %q", mode)
	}
}
