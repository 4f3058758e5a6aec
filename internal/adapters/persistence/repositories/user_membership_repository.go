package repositories

import (
	"context"
	"time"

	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/core/domain"

	"gorm.io/gorm"
)

var (
	statusActive  = string(domain.StatusActive)
	statusPending = string(domain.StatusPending)
	statusExpired = string(domain.StatusExpired)
)

// userMembershipRepository implements UserMembershipRepository interface
type userMembershipRepository struct {
	db *gorm.DB
}

// NewUserMembershipRepository creates a new user membership repository
func NewUserMembershipRepository(db *gorm.DB) UserMembershipRepository {
	return &userMembershipRepository{db: db}
}

// expireWhere is the shared update for active records past their end date
func expireWhere(tx *gorm.DB, now time.Time) *gorm.DB {
	return tx.Model(&models.UserMembership{}).
		Where("status = ? AND end_date < ?", statusActive, now).
		Updates(map[string]interface{}{
			"status":      statusExpired,
			"active_slot": nil,
			"expired_at":  now,
		})
}

// FindActiveFor gets the user's active, unexpired membership
func (r *userMembershipRepository) FindActiveFor(ctx context.Context, userID string, now time.Time) (*models.UserMembership, error) {
	var m models.UserMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND end_date >= ?", userID, statusActive, now).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMembership inserts m after releasing the user's stale active slot.
// A second active record for the same user fails the active_slot unique index.
func (r *userMembershipRepository) CreateMembership(ctx context.Context, m *models.UserMembership, now time.Time) error {
	if m.Status == statusActive {
		slot := m.UserID
		m.ActiveSlot = &slot
	} else {
		m.ActiveSlot = nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := expireWhere(tx.Where("user_id = ?", m.UserID), now).Error; err != nil {
			return err
		}
		return tx.Create(m).Error
	})
}

// Activate moves a pending membership to active
func (r *userMembershipRepository) Activate(ctx context.Context, m *models.UserMembership, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := expireWhere(tx.Where("user_id = ?", m.UserID), now).Error; err != nil {
			return err
		}

		result := tx.Model(&models.UserMembership{}).
			Where("id = ? AND status = ?", m.ID, statusPending).
			Updates(map[string]interface{}{
				"status":      statusActive,
				"active_slot": m.UserID,
				"start_date":  m.StartDate,
				"end_date":    m.EndDate,
				"qr_code":     m.QRCode,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		slot := m.UserID
		m.Status = statusActive
		m.ActiveSlot = &slot
		return nil
	})
}

// MarkExpiredBatch expires all active memberships past their end date in one statement
func (r *userMembershipRepository) MarkExpiredBatch(ctx context.Context, now time.Time) (int64, error) {
	result := expireWhere(r.db.WithContext(ctx), now)
	return result.RowsAffected, result.Error
}

// FindRecentlyExpired lists memberships expired since `since` that still need a notification
func (r *userMembershipRepository) FindRecentlyExpired(ctx context.Context, since time.Time) ([]*models.UserMembership, error) {
	var memberships []*models.UserMembership
	err := r.db.WithContext(ctx).
		Where("status = ? AND expired_at >= ? AND expiry_notified_at IS NULL", statusExpired, since).
		Order("expired_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// MarkExpiryNotified records that the expiry notification was persisted
func (r *userMembershipRepository) MarkExpiryNotified(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserMembership{}).
		Where("id = ? AND expiry_notified_at IS NULL", id).
		Update("expiry_notified_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID gets a membership by ID
func (r *userMembershipRepository) FindByID(ctx context.Context, id string) (*models.UserMembership, error) {
	var m models.UserMembership
	err := r.db.WithContext(ctx).
		Preload("MembershipType").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByIDForUser gets a membership owned by userID
func (r *userMembershipRepository) FindByIDForUser(ctx context.Context, id, userID string) (*models.UserMembership, error) {
	var m models.UserMembership
	err := r.db.WithContext(ctx).
		Preload("MembershipType").
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindActiveByIDForUser gets an active membership owned by userID
func (r *userMembershipRepository) FindActiveByIDForUser(ctx context.Context, id, userID string) (*models.UserMembership, error) {
	var m models.UserMembership
	err := r.db.WithContext(ctx).
		Preload("MembershipType").
		Where("id = ? AND user_id = ? AND status = ?", id, userID, statusActive).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateQRCode replaces the stored QR payload of an active membership
func (r *userMembershipRepository) UpdateQRCode(ctx context.Context, id, userID, qrCode string) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserMembership{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, statusActive).
		Update("qr_code", qrCode)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByStatus lists memberships in any of the given statuses with pagination
func (r *userMembershipRepository) ListByStatus(ctx context.Context, statuses []string, offset, limit int) ([]*models.UserMembership, int64, error) {
	var memberships []*models.UserMembership
	var total int64

	query := r.db.WithContext(ctx).Model(&models.UserMembership{}).Where("status IN ?", statuses)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("MembershipType").
		Where("status IN ?", statuses).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&memberships).Error
	if err != nil {
		return nil, 0, err
	}

	return memberships, total, nil
}

// ListByUser lists all memberships of a user, newest first
func (r *userMembershipRepository) ListByUser(ctx context.Context, userID string) ([]*models.UserMembership, error) {
	var memberships []*models.UserMembership
	err := r.db.WithContext(ctx).
		Preload("MembershipType").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListAll lists every membership with pagination
func (r *userMembershipRepository) ListAll(ctx context.Context, offset, limit int) ([]*models.UserMembership, int64, error) {
	var memberships []*models.UserMembership
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.UserMembership{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("MembershipType").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&memberships).Error
	if err != nil {
		return nil, 0, err
	}

	return memberships, total, nil
}

// CountByType counts memberships referencing a membership type
func (r *userMembershipRepository) CountByType(ctx context.Context, membershipTypeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserMembership{}).
		Where("membership_type_id = ?", membershipTypeID).
		Count(&count).Error
	return count, err
}
