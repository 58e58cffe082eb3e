package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"skillbox/internal/models"
	"skillbox/internal/utils/logger"
)

// Terms implements the terms-of-use gate. Acceptance is recorded per account
// and mirrored onto the session as a fast-path flag; declining wipes the
// account record and kills the session.
type Terms struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTerms(db *gorm.DB) *Terms {
	return &Terms{db: db, log: logger.New("terms")}
}

// Satisfied reports whether the gate is open for this session. A durable
// acceptance from an earlier session is copied onto the current one so the
// next check skips the lookup.
func (t *Terms) Satisfied(ctx context.Context, session *models.AuthSession) (bool, error) {
	if session.TermsAccepted {
		return true, nil
	}

	var acc models.TermsAcceptance
	err := t.db.WithContext(ctx).First(&acc, "user_id = ?", session.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	err = t.db.WithContext(ctx).Model(&models.AuthSession{}).
		Where("id = ?", session.ID).
		Update("terms_accepted", true).Error
	if err != nil {
		return false, err
	}
	session.TermsAccepted = true
	return true, nil
}

// Accept records acceptance for the session's user. Idempotent.
func (t *Terms) Accept(ctx context.Context, session *models.AuthSession) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acc := models.TermsAcceptance{UserID: session.UserID, AcceptedAt: time.Now().UTC()}
		if err := tx.Where("user_id = ?", session.UserID).FirstOrCreate(&acc).Error; err != nil {
			return err
		}
		return tx.Model(&models.AuthSession{}).
			Where("id = ?", session.ID).
			Update("terms_accepted", true).Error
	})
	if err != nil {
		return t.log.Error("failed to record terms acceptance", err)
	}
	session.TermsAccepted = true
	return nil
}

// Decline withdraws acceptance entirely and terminates the session. The user
// must log in and accept again before touching gated surfaces.
func (t *Terms) Decline(ctx context.Context, session *models.AuthSession) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", session.UserID).Delete(&models.TermsAcceptance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.AuthSession{}, "id = ?", session.ID).Error
	})
	if err != nil {
		return t.log.Error("failed to record terms decline", err)
	}
	t.log.Warn("user %s declined terms, session %s terminated", session.UserID, session.ID)
	return nil
}
