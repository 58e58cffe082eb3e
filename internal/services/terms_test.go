package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"skillbox/internal/models"
)

func seedSession(t *testing.T, db *gorm.DB, userID string) *models.AuthSession {
	t.Helper()
	s := &models.AuthSession{
		UserID:    userID,
		Token:     "tok-" + userID + "-" + time.Now().Format("150405.000000000"),
		Refresh:   "refresh",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return s
}

func TestTermsAcceptancePersistsAcrossSessions(t *testing.T) {
	db := openTestDB(t)
	terms := NewTerms(db)
	ctx := context.Background()

	partner := seedUser(t, db, models.RolePartner, true)
	first := seedSession(t, db, partner.ID)

	ok, err := terms.Satisfied(ctx, first)
	if err != nil {
		t.Fatalf("satisfied: %v", err)
	}
	if ok {
		t.Fatal("gate open before any acceptance")
	}

	if err := terms.Accept(ctx, first); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if ok, _ := terms.Satisfied(ctx, first); !ok {
		t.Fatal("gate closed right after acceptance")
	}

	// Accepting twice must not fail or duplicate the record.
	if err := terms.Accept(ctx, first); err != nil {
		t.Fatalf("second accept: %v", err)
	}
	var count int64
	db.Model(&models.TermsAcceptance{}).Where("user_id = ?", partner.ID).Count(&count)
	if count != 1 {
		t.Fatalf("acceptance rows = %d, want 1", count)
	}

	// A brand-new session starts with the flag off but the durable record
	// opens the gate and back-fills the flag.
	second := seedSession(t, db, partner.ID)
	if second.TermsAccepted {
		t.Fatal("new session born with terms flag set")
	}
	if ok, _ := terms.Satisfied(ctx, second); !ok {
		t.Fatal("acceptance did not persist across sessions")
	}
	var stored models.AuthSession
	if err := db.First(&stored, "id = ?", second.ID).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if !stored.TermsAccepted {
		t.Fatal("session flag not refreshed from durable record")
	}
}

func TestTermsDeclineClearsEverything(t *testing.T) {
	db := openTestDB(t)
	terms := NewTerms(db)
	ctx := context.Background()

	partner := seedUser(t, db, models.RolePartner, true)
	session := seedSession(t, db, partner.ID)

	if err := terms.Accept(ctx, session); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if err := terms.Decline(ctx, session); err != nil {
		t.Fatalf("decline: %v", err)
	}

	var accRows int64
	db.Model(&models.TermsAcceptance{}).Where("user_id = ?", partner.ID).Count(&accRows)
	if accRows != 0 {
		t.Fatalf("acceptance rows after decline = %d, want 0", accRows)
	}

	var sessRows int64
	db.Model(&models.AuthSession{}).Where("id = ?", session.ID).Count(&sessRows)
	if sessRows != 0 {
		t.Fatal("session survived decline")
	}

	next := seedSession(t, db, partner.ID)
	if ok, _ := terms.Satisfied(ctx, next); ok {
		t.Fatal("gate open after decline")
	}
}
