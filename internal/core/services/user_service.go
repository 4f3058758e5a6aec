package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/adapters/persistence/repositories"
	"dinehub/internal/core/domain"

	"gorm.io/gorm"
)

// UserService handles profile and VIP identity business logic
type UserService struct {
	userRepo repositories.UserRepository
	now      Clock
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		now:      systemClock,
	}
}

// WithClock replaces the time source
func (s *UserService) WithClock(now Clock) *UserService {
	s.now = now
	return s
}

// GetProfile gets a user's profile
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.load(ctx, userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// SubmitVipRequest stores the user's VIP id number and opens a request
func (s *UserService) SubmitVipRequest(ctx context.Context, userID, vipIDNumber string) (*models.UserResponse, error) {
	vipIDNumber = strings.TrimSpace(vipIDNumber)
	if vipIDNumber == "" {
		return nil, domain.ErrVipIDRequired
	}

	user, err := s.load(ctx, userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	if user.VipVerified {
		return nil, domain.ErrVipAlreadyVerified
	}
	if user.VipRequest {
		return nil, domain.ErrVipRequestPending
	}

	// Guarded write; a concurrent request or approval leaves no row to update
	if err := s.userRepo.SubmitVipRequest(ctx, userID, vipIDNumber); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVipRequestPending
		}
		return nil, domain.Internal("submit VIP request", err)
	}

	user.VipIDNumber = &vipIDNumber
	user.VipRequest = true
	user.VipVerified = false

	log.Printf("✅ VIP request submitted by user %s", userID)
	return user.ToResponse(), nil
}

// ApproveVipIdentity marks the user's submitted VIP identity as verified.
// Pending memberships are not promoted; see MembershipService.ApprovePendingMembership.
func (s *UserService) ApproveVipIdentity(ctx context.Context, userID, adminID string) (*models.UserResponse, error) {
	admin, err := s.load(ctx, adminID, domain.ErrAdminNotFound)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, domain.ErrNotAdmin
	}

	user, err := s.load(ctx, userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	if user.VipVerified {
		return nil, domain.ErrVipAlreadyVerified
	}
	if user.VipIDNumber == nil || *user.VipIDNumber == "" {
		return nil, domain.ErrVipIDMissing
	}

	now := s.now()
	if err := s.userRepo.ApproveVip(ctx, userID, adminID, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVipAlreadyVerified
		}
		return nil, domain.Internal("approve VIP identity", err)
	}

	user.VipVerified = true
	user.VipRequest = false
	user.VipVerifiedBy = &adminID
	user.VipVerifiedAt = &now

	log.Printf("✅ VIP identity of user %s approved by admin %s", userID, adminID)
	return user.ToResponse(), nil
}

// ListVipRequests lists users waiting for VIP approval
func (s *UserService) ListVipRequests(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.ListVipRequests(ctx, offset, limit)
	if err != nil {
		return nil, 0, domain.Internal("list VIP requests", err)
	}

	responses := make([]*models.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, total, nil
}

// ListUsers lists all accounts for administrators
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, domain.Internal("list users", err)
	}

	responses := make([]*models.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, total, nil
}

func (s *UserService) load(ctx context.Context, id string, notFound error) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, domain.Internal("load user", err)
	}
	return user, nil
}
