package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"skillbox/internal/entitlement"
	"skillbox/internal/models"
	"skillbox/internal/utils/logger"
)

// Executions tracks partner-run training deliveries and their attendance
// reports. Scheduling one requires the same entitlement a download does.
type Executions struct {
	db     *gorm.DB
	ledger *Ledger
	mode   entitlement.Mode
	log    *logger.Logger
}

func NewExecutions(db *gorm.DB, ledger *Ledger, mode entitlement.Mode) *Executions {
	return &Executions{db: db, ledger: ledger, mode: mode, log: logger.New("executions")}
}

// Schedule creates a planned execution. Only partners run trainings, and
// only for courses they are entitled to.
func (e *Executions) Schedule(ctx context.Context, user *models.User, exec *models.Execution) error {
	if user.Role != models.RolePartner {
		return ErrForbidden
	}

	var course models.Course
	err := e.db.WithContext(ctx).First(&course, "id = ?", exec.CourseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var latest *models.AccessRequest
	if e.mode == entitlement.ModePerCourse {
		latest, err = e.ledger.Latest(ctx, user.ID, exec.CourseID)
		if err != nil {
			return err
		}
	}
	decision, err := entitlement.Evaluate(user, &course, latest, e.mode)
	if err != nil {
		return err
	}
	if decision != entitlement.Granted {
		return &EntitlementError{Decision: decision}
	}

	exec.UserID = user.ID
	exec.Organization = user.Organization
	exec.Status = models.ExecutionStatusScheduled
	if err := e.db.WithContext(ctx).Create(exec).Error; err != nil {
		return e.log.Error("failed to schedule execution", err)
	}
	e.log.Info("execution %s scheduled by %s for course %s", exec.ID, user.ID, exec.CourseID)
	return nil
}

// List returns executions scoped by role: partners see their own, admins and
// stakeholders see everything.
func (e *Executions) List(ctx context.Context, user *models.User) ([]models.Execution, error) {
	q := e.db.WithContext(ctx).Preload("Course").Order("execution_date DESC")
	switch user.Role {
	case models.RolePartner:
		q = q.Where("user_id = ?", user.ID)
	case models.RoleAdmin, models.RoleStakeholder:
		q = q.Preload("User")
	default:
		return nil, ErrForbidden
	}
	var execs []models.Execution
	if err := q.Find(&execs).Error; err != nil {
		return nil, err
	}
	return execs, nil
}

// AttendanceReport is the post-delivery outcome a partner files once.
type AttendanceReport struct {
	ActualAttendees int            `json:"actualAttendees" validate:"min=0"`
	CompletionRate  float64        `json:"completionRate" validate:"min=0,max=100"`
	FeedbackSummary string         `json:"feedbackSummary"`
	LearnerDetails  datatypes.JSON `json:"learnerDetails"`
}

// SubmitAttendance completes an execution. One report per execution; a
// second submission conflicts rather than overwrites.
func (e *Executions) SubmitAttendance(ctx context.Context, user *models.User, executionID string, report AttendanceReport) (*models.Execution, error) {
	var exec models.Execution
	err := e.db.WithContext(ctx).First(&exec, "id = ?", executionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if exec.UserID != user.ID {
		return nil, ErrForbidden
	}

	now := time.Now().UTC()
	// Guarded the same way decisions are: the update only matches rows that
	// have not been reported yet.
	res := e.db.WithContext(ctx).Model(&models.Execution{}).
		Where("id = ? AND attendance_submitted = ?", executionID, false).
		Updates(map[string]interface{}{
			"attendance_submitted":    true,
			"attendance_submitted_at": now,
			"status":                  models.ExecutionStatusCompleted,
			"actual_attendees":        report.ActualAttendees,
			"completion_rate":         report.CompletionRate,
			"feedback_summary":        report.FeedbackSummary,
			"learner_details":         report.LearnerDetails,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}

	if err := e.db.WithContext(ctx).First(&exec, "id = ?", executionID).Error; err != nil {
		return nil, err
	}
	e.log.Success("attendance submitted for execution %s by %s", executionID, user.ID)
	return &exec, nil
}
