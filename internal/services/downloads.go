package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"skillbox/internal/entitlement"
	"skillbox/internal/models"
	"skillbox/internal/obs"
	"skillbox/internal/utils/logger"
)

// ReferenceMinter turns a storage key into a short-lived download URL.
// *ObjectStore is the production implementation.
type ReferenceMinter interface {
	MintDownloadReference(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
}

// DownloadGrant is a successful authorization: a time-limited URL plus the
// name the browser should save the file under.
type DownloadGrant struct {
	URL       string    `json:"download_url"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Downloads is the single chokepoint for handing out content. Evaluate
// first, mint second, record third; a download event exists only when a URL
// was actually issued.
type Downloads struct {
	db     *gorm.DB
	ledger *Ledger
	minter ReferenceMinter
	mode   entitlement.Mode
	ttl    time.Duration
	log    *logger.Logger
}

func NewDownloads(db *gorm.DB, ledger *Ledger, minter ReferenceMinter, mode entitlement.Mode, ttl time.Duration) *Downloads {
	return &Downloads{
		db:     db,
		ledger: ledger,
		minter: minter,
		mode:   mode,
		ttl:    ttl,
		log:    logger.New("downloads"),
	}
}

// Authorize runs the full gate for user on (courseID, fileID).
func (d *Downloads) Authorize(ctx context.Context, user *models.User, courseID, fileID string) (*DownloadGrant, error) {
	var course models.Course
	err := d.db.WithContext(ctx).First(&course, "id = ?", courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var file models.CourseFile
	err = d.db.WithContext(ctx).Where("id = ? AND course_id = ?", fileID, courseID).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// The request history only matters for partners under per-course mode;
	// skip the query otherwise.
	var latest *models.AccessRequest
	if d.mode == entitlement.ModePerCourse && user.Role == models.RolePartner {
		latest, err = d.ledger.Latest(ctx, user.ID, courseID)
		if err != nil {
			return nil, err
		}
	}

	decision, err := entitlement.Evaluate(user, &course, latest, d.mode)
	if err != nil {
		return nil, err
	}
	obs.EntitlementDecisions.WithLabelValues(string(decision)).Inc()
	if decision != entitlement.Granted {
		d.log.Warn("download refused for %s on %s/%s: %s", user.ID, courseID, fileID, decision)
		return nil, &EntitlementError{Decision: decision}
	}

	url, expiresAt, err := d.minter.MintDownloadReference(ctx, file.StorageKey, d.ttl)
	if err != nil {
		// No event on failure: the ledger must only record URLs that were
		// actually handed out.
		d.log.Error("failed to mint download reference", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	event := &models.DownloadEvent{UserID: user.ID, CourseID: courseID, FileID: fileID}
	if err := d.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	obs.DownloadsRecorded.Inc()

	return &DownloadGrant{URL: url, Filename: file.OriginalName, ExpiresAt: expiresAt}, nil
}
