package repositories

import (
	"context"
	"time"

	"dinehub/internal/adapters/persistence/models"
)

// Conditional writes (UpdateQRCode, Activate, SubmitVipRequest, ApproveVip,
// MarkExpiryNotified, Delete) return gorm.ErrRecordNotFound when no row
// matched their guard. Inserts that collide with a unique index return
// gorm.ErrDuplicatedKey.

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListVipRequests(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	SubmitVipRequest(ctx context.Context, id, vipIDNumber string) error
	ApproveVip(ctx context.Context, id, adminID string, at time.Time) error
}

// MembershipTypeRepository defines membership catalog repository interface
type MembershipTypeRepository interface {
	Create(ctx context.Context, t *models.MembershipType) error
	GetByID(ctx context.Context, id string) (*models.MembershipType, error)
	List(ctx context.Context, category string) ([]*models.MembershipType, error)
	Update(ctx context.Context, t *models.MembershipType) error
	Delete(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
}

// UserMembershipRepository defines the membership store
type UserMembershipRepository interface {
	// FindActiveFor returns the user's active membership whose end date is not past
	FindActiveFor(ctx context.Context, userID string, now time.Time) (*models.UserMembership, error)
	// CreateMembership releases the user's stale active slot and inserts m in one transaction
	CreateMembership(ctx context.Context, m *models.UserMembership, now time.Time) error
	// Activate moves a pending membership to active with new dates and QR code
	Activate(ctx context.Context, m *models.UserMembership, now time.Time) error
	// MarkExpiredBatch expires every active membership past its end date
	MarkExpiredBatch(ctx context.Context, now time.Time) (int64, error)
	// FindRecentlyExpired lists memberships expired since `since` with no notification yet
	FindRecentlyExpired(ctx context.Context, since time.Time) ([]*models.UserMembership, error)
	MarkExpiryNotified(ctx context.Context, id string, at time.Time) error
	FindByID(ctx context.Context, id string) (*models.UserMembership, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*models.UserMembership, error)
	FindActiveByIDForUser(ctx context.Context, id, userID string) (*models.UserMembership, error)
	// UpdateQRCode replaces the stored payload while the membership is active
	UpdateQRCode(ctx context.Context, id, userID, qrCode string) error
	ListByStatus(ctx context.Context, statuses []string, offset, limit int) ([]*models.UserMembership, int64, error)
	ListByUser(ctx context.Context, userID string) ([]*models.UserMembership, error)
	ListAll(ctx context.Context, offset, limit int) ([]*models.UserMembership, int64, error)
	CountByType(ctx context.Context, membershipTypeID string) (int64, error)
}

// NotificationRepository defines notification repository interface
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
