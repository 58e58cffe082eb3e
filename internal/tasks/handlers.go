package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"skillbox/internal/models"
	"skillbox/internal/utils/logger"
)

// TaskHandler processes background tasks
type TaskHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{db: db, log: logger.New("task_handler")}
}

// HandleAccessRequestNotify surfaces a new pending request to the reviewer
// queue log. Mail delivery hangs off this handler when an SMTP relay is
// configured.
func (h *TaskHandler) HandleAccessRequestNotify(ctx context.Context, t *asynq.Task) error {
	var p AccessRequestNotifyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal notify payload: %w", err)
	}

	var req models.AccessRequest
	err := h.db.WithContext(ctx).Preload("User").Preload("Course").First(&req, "id = ?", p.RequestID).Error
	if err != nil {
		// The request may have been decided and its course deleted since;
		// nothing left to notify about.
		h.log.Warn("notify task for vanished request %s: %v", p.RequestID, err)
		return nil
	}
	if req.Status != models.RequestStatusPending {
		h.log.Info("request %s already %s, skipping notification", req.ID, req.Status)
		return nil
	}

	var reviewers int64
	h.db.WithContext(ctx).Model(&models.User{}).
		Where("role IN ?", []models.UserRole{models.RoleAdmin, models.RoleStakeholder}).
		Count(&reviewers)

	h.log.Success("request %s from %s awaits %d reviewers (course %s)",
		req.ID, req.UserID, reviewers, req.CourseID)
	return nil
}

// HandleDownloadsDigest logs the trailing day of download activity. Runs on
// the scheduler, not on demand.
func (h *TaskHandler) HandleDownloadsDigest(ctx context.Context, t *asynq.Task) error {
	since := time.Now().UTC().Add(-24 * time.Hour)

	var total int64
	err := h.db.WithContext(ctx).Model(&models.DownloadEvent{}).
		Where("created_at >= ?", since).
		Count(&total).Error
	if err != nil {
		return fmt.Errorf("failed to count downloads: %w", err)
	}

	var pending int64
	h.db.WithContext(ctx).Model(&models.AccessRequest{}).
		Where("status = ?", models.RequestStatusPending).
		Count(&pending)

	h.log.Info("daily digest: %d downloads in 24h, %d requests pending review", total, pending)
	return nil
}
