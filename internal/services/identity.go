package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"skillbox/internal/models"
	"skillbox/internal/utils/logger"
)

// Identity covers user administration: lookup, approval, role changes.
type Identity struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIdentity(db *gorm.DB) *Identity {
	return &Identity{db: db, log: logger.New("identity")}
}

func (s *Identity) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Identity) ListUsers(ctx context.Context, actor *models.User, role models.UserRole) ([]models.User, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleStakeholder {
		return nil, ErrForbidden
	}
	q := s.db.WithContext(ctx).Order("created_at ASC")
	if role != "" {
		if !models.IsValidUserRole(role) {
			return nil, ErrInvalidRole
		}
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetApproved flips the portal-level approval flag.
func (s *Identity) SetApproved(ctx context.Context, actor *models.User, userID string, approved bool) (*models.User, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleStakeholder {
		return nil, ErrForbidden
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_approved", approved)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	s.log.Success("user %s approval set to %t by %s", userID, approved, actor.ID)
	return s.GetUser(ctx, userID)
}

// SetRole changes a user's role. Only full admins may mint other admins.
func (s *Identity) SetRole(ctx context.Context, actor *models.User, userID string, role models.UserRole) (*models.User, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleStakeholder {
		return nil, ErrForbidden
	}
	if !models.IsValidUserRole(role) {
		return nil, ErrInvalidRole
	}
	if role == models.RoleAdmin && actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	s.log.Success("user %s role set to %s by %s", userID, role, actor.ID)
	return s.GetUser(ctx, userID)
}
