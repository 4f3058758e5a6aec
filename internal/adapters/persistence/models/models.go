package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Users
// ============================================================

// User represents users table
type User struct {
	ID            string         `gorm:"type:char(36);primaryKey" json:"id"`
	Username      string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email         string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password      string         `gorm:"size:255;not null" json:"-"`
	FullName      string         `gorm:"size:150" json:"full_name"`
	Role          string         `gorm:"size:20;default:'USER'" json:"role"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	VipIDNumber   *string        `gorm:"size:100" json:"vip_id_number"`
	VipVerified   bool           `gorm:"default:false" json:"vip_verified"`
	VipRequest    bool           `gorm:"default:false;index" json:"vip_request"`
	VipVerifiedBy *string        `gorm:"type:char(36)" json:"vip_verified_by"`
	VipVerifiedAt *time.Time     `json:"vip_verified_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a uuid when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name,omitempty"`
	Role          string     `json:"role"`
	IsActive      bool       `json:"is_active"`
	VipIDNumber   *string    `json:"vip_id_number,omitempty"`
	VipVerified   bool       `json:"vip_verified"`
	VipRequest    bool       `json:"vip_request"`
	VipVerifiedAt *time.Time `json:"vip_verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          u.Role,
		IsActive:      u.IsActive,
		VipIDNumber:   u.VipIDNumber,
		VipVerified:   u.VipVerified,
		VipRequest:    u.VipRequest,
		VipVerifiedAt: u.VipVerifiedAt,
		CreatedAt:     u.CreatedAt,
	}
}

// IsAdmin reports whether the user holds the ADMIN role
func (u *User) IsAdmin() bool {
	return u.Role == "ADMIN"
}

// ============================================================
// Notifications
// ============================================================

// Notification represents notifications table
type Notification struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(36);index;not null" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	Metadata  *string   `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns a uuid when none is set
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&MembershipType{},
		&UserMembership{},
		&Notification{},
	)
}
