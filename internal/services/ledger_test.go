package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"skillbox/internal/models"
)

func TestSubmitValidation(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	partner := seedUser(t, db, models.RolePartner, false)
	course := seedCourse(t, db)

	if _, err := ledger.Submit(ctx, partner, course.ID, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank reason: want ErrValidation, got %v", err)
	}
	if _, err := ledger.Submit(ctx, partner, course.ID, ""); !errors.Is(err, ErrEmptyReason) {
		t.Fatalf("empty reason: want ErrEmptyReason, got %v", err)
	}
	if _, err := ledger.Submit(ctx, partner, "no-such-course", "need it"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown course: want ErrNotFound, got %v", err)
	}

	admin := seedUser(t, db, models.RoleAdmin, true)
	if _, err := ledger.Submit(ctx, admin, course.ID, "need it"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("staff submit: want ErrForbidden, got %v", err)
	}

	req, err := ledger.Submit(ctx, partner, course.ID, "  running a delivery next month  ")
	if err != nil {
		t.Fatalf("valid submit: %v", err)
	}
	if req.Status != models.RequestStatusPending {
		t.Fatalf("new request status = %s, want pending", req.Status)
	}
	if req.Reason != "running a delivery next month" {
		t.Fatalf("reason not trimmed: %q", req.Reason)
	}
}

func TestSubmitRejectsDuplicatePending(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	partner := seedUser(t, db, models.RolePartner, false)
	course := seedCourse(t, db)

	if _, err := ledger.Submit(ctx, partner, course.ID, "first"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := ledger.Submit(ctx, partner, course.ID, "second"); !errors.Is(err, ErrDuplicatePending) {
		t.Fatalf("second submit: want ErrDuplicatePending, got %v", err)
	}

	// A different course is a separate pending slot.
	other := seedCourse(t, db)
	if _, err := ledger.Submit(ctx, partner, other.ID, "other course"); err != nil {
		t.Fatalf("submit for other course: %v", err)
	}
}

func TestConcurrentSubmitsYieldOnePending(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	partner := seedUser(t, db, models.RolePartner, false)
	course := seedCourse(t, db)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Submit(ctx, partner, course.ID, "concurrent submit")
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicatePending):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != attempts-1 {
		t.Fatalf("got %d successes and %d duplicates, want 1 and %d", ok, dup, attempts-1)
	}

	var pending int64
	db.Model(&models.AccessRequest{}).
		Where("user_id = ? AND course_id = ? AND status = ?", partner.ID, course.ID, models.RequestStatusPending).
		Count(&pending)
	if pending != 1 {
		t.Fatalf("stored pending requests = %d, want 1", pending)
	}
}

func TestDecideAuthorizationAndValidation(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	partner := seedUser(t, db, models.RolePartner, false)
	contentAdmin := seedUser(t, db, models.RoleContentAdmin, true)
	admin := seedUser(t, db, models.RoleAdmin, true)
	course := seedCourse(t, db)

	req, err := ledger.Submit(ctx, partner, course.ID, "please")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := ledger.Decide(ctx, partner, req.ID, models.RequestStatusApproved, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("partner decide: want ErrForbidden, got %v", err)
	}
	if _, err := ledger.Decide(ctx, contentAdmin, req.ID, models.RequestStatusApproved, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("content admin decide: want ErrForbidden, got %v", err)
	}
	if _, err := ledger.Decide(ctx, admin, req.ID, models.RequestStatusPending, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("decide to pending: want ErrInvalidStatus, got %v", err)
	}
	if _, err := ledger.Decide(ctx, admin, "missing-id", models.RequestStatusApproved, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("decide missing: want ErrNotFound, got %v", err)
	}

	decided, err := ledger.Decide(ctx, admin, req.ID, models.RequestStatusApproved, "verified partner")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != models.RequestStatusApproved {
		t.Fatalf("status = %s, want approved", decided.Status)
	}
	if decided.ReviewedBy != admin.ID || decided.DecidedAt == nil {
		t.Fatalf("decision audit fields not set: reviewedBy=%q decidedAt=%v", decided.ReviewedBy, decided.DecidedAt)
	}
}

func TestDecideIsOneShot(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	partner := seedUser(t, db, models.RolePartner, false)
	admin := seedUser(t, db, models.RoleAdmin, true)
	course := seedCourse(t, db)

	req, err := ledger.Submit(ctx, partner, course.ID, "please")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := ledger.Decide(ctx, admin, req.ID, models.RequestStatusRejected, "not yet"); err != nil {
		t.Fatalf("first decide: %v", err)
	}
	if _, err := ledger.Decide(ctx, admin, req.ID, models.RequestStatusApproved, "changed my mind"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second decide: want ErrInvalidTransition, got %v", err)
	}

	var stored models.AccessRequest
	if err := db.First(&stored, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != models.RequestStatusRejected {
		t.Fatalf("status flipped to %s after second decide", stored.Status)
	}
}

func TestConcurrentDecidesOneWins(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	partner := seedUser(t, db, models.RolePartner, false)
	admin := seedUser(t, db, models.RoleAdmin, true)
	stakeholder := seedUser(t, db, models.RoleStakeholder, true)
	course := seedCourse(t, db)

	req, err := ledger.Submit(ctx, partner, course.ID, "please")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = ledger.Decide(ctx, admin, req.ID, models.RequestStatusApproved, "")
	}()
	go func() {
		defer wg.Done()
		_, results[1] = ledger.Decide(ctx, stakeholder, req.ID, models.RequestStatusRejected, "")
	}()
	wg.Wait()

	var won, lost int
	for _, err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrInvalidTransition):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("got %d winners and %d losers, want exactly one of each", won, lost)
	}

	var stored models.AccessRequest
	if err := db.First(&stored, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.Status.Terminal() {
		t.Fatalf("request left in %s after concurrent decides", stored.Status)
	}
}

func TestResubmitAfterTerminalDecision(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	partner := seedUser(t, db, models.RolePartner, false)
	admin := seedUser(t, db, models.RoleAdmin, true)
	course := seedCourse(t, db)

	first, err := ledger.Submit(ctx, partner, course.ID, "first try")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := ledger.Decide(ctx, admin, first.ID, models.RequestStatusRejected, "insufficient detail"); err != nil {
		t.Fatalf("decide: %v", err)
	}

	// A rejected request frees the pending slot; the history keeps both rows.
	second, err := ledger.Submit(ctx, partner, course.ID, "second try with detail")
	if err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("resubmit reused the decided row")
	}

	latest, err := ledger.Latest(ctx, partner.ID, course.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != second.ID {
		t.Fatalf("latest = %s, want the resubmission %s", latest.ID, second.ID)
	}

	history, err := ledger.ListByUser(ctx, partner.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].ID != first.ID || history[1].ID != second.ID {
		t.Fatal("history not in submission order")
	}
}

func TestListByStatusFiltersAndOrders(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	admin := seedUser(t, db, models.RoleAdmin, true)
	course := seedCourse(t, db)

	p1 := seedUser(t, db, models.RolePartner, false)
	p2 := seedUser(t, db, models.RolePartner, false)
	r1, _ := ledger.Submit(ctx, p1, course.ID, "one")
	r2, _ := ledger.Submit(ctx, p2, course.ID, "two")

	if _, err := ledger.Decide(ctx, admin, r1.ID, models.RequestStatusApproved, ""); err != nil {
		t.Fatalf("decide: %v", err)
	}

	pending, err := ledger.ListByStatus(ctx, models.RequestStatusPending)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != r2.ID {
		t.Fatalf("pending queue wrong: %+v", pending)
	}

	all, err := ledger.ListByStatus(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("list all length = %d, want 2", len(all))
	}

	if _, err := ledger.ListByStatus(ctx, models.RequestStatus("bogus")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bogus status: want ErrInvalidStatus, got %v", err)
	}
}
