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

// MembershipTypeService manages the membership catalog
type MembershipTypeService struct {
	typeRepo       repositories.MembershipTypeRepository
	membershipRepo repositories.UserMembershipRepository
}

// NewMembershipTypeService creates a new membership type service
func NewMembershipTypeService(
	typeRepo repositories.MembershipTypeRepository,
	membershipRepo repositories.UserMembershipRepository,
) *MembershipTypeService {
	return &MembershipTypeService{
		typeRepo:       typeRepo,
		membershipRepo: membershipRepo,
	}
}

// MembershipTypeInput is the create/update request body
type MembershipTypeInput struct {
	Name           *string  `json:"name"`
	Price          *float64 `json:"price"`
	DurationInDays *int     `json:"durationInDays"`
	Description    *string  `json:"description"`
	Category       *string  `json:"type"`
	BillingCycle   *string  `json:"billingCycle"`
}

// Create creates a membership type; every field but description is required
func (s *MembershipTypeService) Create(ctx context.Context, input *MembershipTypeInput) (*models.MembershipType, error) {
	if input.Name == nil || input.Price == nil || input.DurationInDays == nil ||
		input.Category == nil || input.BillingCycle == nil {
		return nil, domain.ErrMembershipTypeInvalid
	}

	mt := &models.MembershipType{}
	if err := applyMembershipType(mt, input); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, mt.Name, ""); err != nil {
		return nil, err
	}

	if err := s.typeRepo.Create(ctx, mt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrMembershipTypeExists
		}
		return nil, domain.Internal("create membership type", err)
	}

	log.Printf("✅ Membership type created: %s", mt.Name)
	return mt, nil
}

// List lists membership types, optionally by category
func (s *MembershipTypeService) List(ctx context.Context, category string) ([]*models.MembershipType, error) {
	if category != "" && !domain.MembershipCategory(category).Valid() {
		return nil, domain.ErrMembershipTypeInvalid
	}
	types, err := s.typeRepo.List(ctx, category)
	if err != nil {
		return nil, domain.Internal("list membership types", err)
	}
	return types, nil
}

// Get gets a membership type
func (s *MembershipTypeService) Get(ctx context.Context, id string) (*models.MembershipType, error) {
	mt, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipTypeNotFound
		}
		return nil, domain.Internal("load membership type", err)
	}
	return mt, nil
}

// Update applies the provided fields to a membership type
func (s *MembershipTypeService) Update(ctx context.Context, id string, input *MembershipTypeInput) (*models.MembershipType, error) {
	mt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyMembershipType(mt, input); err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := s.ensureUniqueName(ctx, mt.Name, mt.ID); err != nil {
			return nil, err
		}
	}

	if err := s.typeRepo.Update(ctx, mt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrMembershipTypeExists
		}
		return nil, domain.Internal("update membership type", err)
	}

	log.Printf("✅ Membership type updated: %s", mt.Name)
	return mt, nil
}

// Delete deletes a membership type no membership refers to
func (s *MembershipTypeService) Delete(ctx context.Context, id string) error {
	count, err := s.membershipRepo.CountByType(ctx, id)
	if err != nil {
		return domain.Internal("count memberships by type", err)
	}
	if count > 0 {
		return domain.ErrMembershipTypeInUse
	}

	if err := s.typeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMembershipTypeNotFound
		}
		return domain.Internal("delete membership type", err)
	}

	log.Printf("🗑️ Membership type deleted: %s", id)
	return nil
}

func (s *MembershipTypeService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.typeRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return domain.Internal("check membership type name", err)
	}
	if exists {
		return domain.ErrMembershipTypeExists
	}
	return nil
}

// applyMembershipType copies the set fields of input onto mt and validates the result
func applyMembershipType(mt *models.MembershipType, input *MembershipTypeInput) error {
	if input.Name != nil {
		mt.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		mt.Price = *input.Price
	}
	if input.DurationInDays != nil {
		mt.DurationInDays = *input.DurationInDays
	}
	if input.Description != nil {
		mt.Description = *input.Description
	}
	if input.Category != nil {
		mt.Category = strings.ToUpper(*input.Category)
	}
	if input.BillingCycle != nil {
		mt.BillingCycle = strings.ToUpper(*input.BillingCycle)
	}

	switch {
	case mt.Name == "":
		return domain.ErrMembershipTypeInvalid
	case mt.Price < 0:
		return domain.ErrMembershipTypeInvalid
	case mt.DurationInDays <= 0:
		return domain.ErrMembershipTypeInvalid
	case !domain.MembershipCategory(mt.Category).Valid():
		return domain.ErrMembershipTypeInvalid
	case !domain.BillingCycle(mt.BillingCycle).Valid():
		return domain.ErrMembershipTypeInvalid
	}
	return nil
}
