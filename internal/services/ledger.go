package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"skillbox/internal/events"
	"skillbox/internal/models"
	"skillbox/internal/obs"
	"skillbox/internal/utils/logger"
)

// Ledger owns the access-request lifecycle. Requests only ever move
// pending -> approved or pending -> rejected, and at most one pending
// request exists per (user, course) pair. Both rules are enforced in the
// database, not just here.
type Ledger struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, log: logger.New("ledger")}
}

// Submit appends a new pending request for requester on courseID.
func (l *Ledger) Submit(ctx context.Context, requester *models.User, courseID, reason string) (*models.AccessRequest, error) {
	if requester.Role != models.RolePartner {
		return nil, ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	var count int64
	if err := l.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	// Cheap pre-check; the partial unique index is the authority when two
	// submits race past it.
	var pending int64
	err := l.db.WithContext(ctx).Model(&models.AccessRequest{}).
		Where("user_id = ? AND course_id = ? AND status = ?", requester.ID, courseID, models.RequestStatusPending).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrDuplicatePending
	}

	req := &models.AccessRequest{
		UserID:   requester.ID,
		CourseID: courseID,
		Reason:   reason,
		Status:   models.RequestStatusPending,
	}
	if err := l.db.WithContext(ctx).Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePending
		}
		return nil, l.log.Error("failed to create access request", err)
	}

	obs.AccessRequestsSubmitted.Inc()
	l.log.Info("access request %s submitted by %s for course %s", req.ID, requester.ID, courseID)
	return req, nil
}

// Decide moves a pending request to approved or rejected. The transition is
// one-shot: the guarded update only matches rows still pending, so of two
// concurrent deciders exactly one wins.
func (l *Ledger) Decide(ctx context.Context, reviewer *models.User, requestID string, status models.RequestStatus, notes string) (*models.AccessRequest, error) {
	if reviewer.Role != models.RoleAdmin && reviewer.Role != models.RoleStakeholder {
		return nil, ErrForbidden
	}
	if !status.Terminal() {
		return nil, ErrInvalidStatus
	}

	now := time.Now().UTC()
	res := l.db.WithContext(ctx).Model(&models.AccessRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": notes,
			"reviewed_by": reviewer.ID,
			"decided_at":  now,
		})
	if res.Error != nil {
		return nil, l.log.Error("failed to decide access request", res.Error)
	}
	if res.RowsAffected == 0 {
		var existing models.AccessRequest
		err := l.db.WithContext(ctx).First(&existing, "id = ?", requestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}

	var req models.AccessRequest
	if err := l.db.WithContext(ctx).Preload("User").Preload("Course").First(&req, "id = ?", requestID).Error; err != nil {
		return nil, err
	}

	obs.AccessRequestsDecided.WithLabelValues(string(status)).Inc()
	events.Emit("access_requests.decided", map[string]interface{}{
		"request_id": req.ID,
		"user_id":    req.UserID,
		"course_id":  req.CourseID,
		"status":     string(status),
	})
	l.log.Success("access request %s %s by %s", req.ID, status, reviewer.ID)
	return &req, nil
}

// Latest returns the most recent request for (userID, courseID), or nil if
// none exists. Ties on created_at break on id so the answer is stable.
func (l *Ledger) Latest(ctx context.Context, userID, courseID string) (*models.AccessRequest, error) {
	var req models.AccessRequest
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at DESC, id DESC").
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByStatus returns requests in submission order, optionally filtered by
// status. Reviewer queues consume this.
func (l *Ledger) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.AccessRequest, error) {
	q := l.db.WithContext(ctx).Preload("User").Preload("Course").
		Order("created_at ASC, id ASC")
	if status != "" {
		if status != models.RequestStatusPending && !status.Terminal() {
			return nil, ErrInvalidStatus
		}
		q = q.Where("status = ?", status)
	}
	var reqs []models.AccessRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListByUser returns one partner's own requests in submission order.
func (l *Ledger) ListByUser(ctx context.Context, userID string) ([]models.AccessRequest, error) {
	var reqs []models.AccessRequest
	err := l.db.WithContext(ctx).Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}
