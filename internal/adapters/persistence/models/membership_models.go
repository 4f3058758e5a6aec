package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Membership catalog
// ============================================================

// MembershipType represents membership_types table
type MembershipType struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Price          float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	DurationInDays int       `gorm:"not null" json:"duration_in_days"`
	Category       string    `gorm:"size:20;not null;index" json:"category"`
	BillingCycle   string    `gorm:"size:20;not null" json:"billing_cycle"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MembershipType) TableName() string {
	return "membership_types"
}

// BeforeCreate assigns a uuid when none is set
func (t *MembershipType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// User memberships
// ============================================================

// UserMembership represents user_memberships table.
// ActiveSlot equals UserID while Status is active and is NULL otherwise;
// its unique index allows one active membership per user.
type UserMembership struct {
	ID               string          `gorm:"type:char(36);primaryKey" json:"id"`
	UserID           string          `gorm:"type:char(36);index;not null" json:"user_id"`
	MembershipTypeID string          `gorm:"type:char(36);index;not null" json:"membership_type_id"`
	StartDate        time.Time       `gorm:"not null" json:"start_date"`
	EndDate          time.Time       `gorm:"not null;index" json:"end_date"`
	Status           string          `gorm:"size:20;not null;index" json:"status"`
	ActiveSlot       *string         `gorm:"type:char(36);uniqueIndex" json:"-"`
	QRCode           *string         `gorm:"type:text" json:"qr_code"`
	VipIDNumber      *string         `gorm:"size:100" json:"vip_id_number"`
	ExpiredAt        *time.Time      `gorm:"index" json:"expired_at"`
	ExpiryNotifiedAt *time.Time      `json:"expiry_notified_at"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	MembershipType   *MembershipType `gorm:"foreignKey:MembershipTypeID" json:"membership_type,omitempty"`
	User             *User           `gorm:"foreignKey:UserID" json:"-"`
}

func (UserMembership) TableName() string {
	return "user_memberships"
}

// BeforeCreate assigns a uuid when none is set
func (m *UserMembership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// IsActive is derived from the status
func (m *UserMembership) IsActive() bool {
	return m.Status == "active"
}

// UserMembershipResponse DTO
type UserMembershipResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	MembershipTypeID string          `json:"membershipTypeId"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	Status           string          `json:"status"`
	IsActive         bool            `json:"isActive"`
	QRCode           *string         `json:"qrCode"`
	VipIDNumber      *string         `json:"vipIdNumber,omitempty"`
	ExpiredAt        *time.Time      `json:"expiredAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	MembershipType   *MembershipType `json:"membershipType,omitempty"`
}

func (m *UserMembership) ToResponse() *UserMembershipResponse {
	return &UserMembershipResponse{
		ID:               m.ID,
		UserID:           m.UserID,
		MembershipTypeID: m.MembershipTypeID,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		Status:           m.Status,
		IsActive:         m.IsActive(),
		QRCode:           m.QRCode,
		VipIDNumber:      m.VipIDNumber,
		ExpiredAt:        m.ExpiredAt,
		CreatedAt:        m.CreatedAt,
		MembershipType:   m.MembershipType,
	}
}
