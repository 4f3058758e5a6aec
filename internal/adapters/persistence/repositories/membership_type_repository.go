package repositories

import (
	"context"

	"dinehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// membershipTypeRepository implements MembershipTypeRepository interface
type membershipTypeRepository struct {
	db *gorm.DB
}

// NewMembershipTypeRepository creates a new membership type repository
func NewMembershipTypeRepository(db *gorm.DB) MembershipTypeRepository {
	return &membershipTypeRepository{db: db}
}

// Create creates a membership type
func (r *membershipTypeRepository) Create(ctx context.Context, t *models.MembershipType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// GetByID gets a membership type by ID
func (r *membershipTypeRepository) GetByID(ctx context.Context, id string) (*models.MembershipType, error) {
	var t models.MembershipType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List lists membership types, optionally filtered by category
func (r *membershipTypeRepository) List(ctx context.Context, category string) ([]*models.MembershipType, error) {
	var types []*models.MembershipType
	query := r.db.WithContext(ctx).Order("price ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// Update updates a membership type
func (r *membershipTypeRepository) Update(ctx context.Context, t *models.MembershipType) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete deletes a membership type
func (r *membershipTypeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MembershipType{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExistsByName checks if another membership type already uses name
func (r *membershipTypeRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.MembershipType{}).Where("name = ?", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
