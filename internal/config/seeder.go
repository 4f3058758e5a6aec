package config

import (
	"errors"
	"fmt"
	"log"

	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/core/domain"
	"dinehub/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := SeedMembershipTypes(s.db); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the administrator from ADMIN_* settings when no admin exists
func (s *Seeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if s.cfg.Admin.Password == "" {
		return errors.New("ADMIN_PASSWORD is not set")
	}
	if err := password.Validate(s.cfg.Admin.Password); err != nil {
		return fmt.Errorf("ADMIN_PASSWORD: %w", err)
	}

	hashedPassword, err := password.Hash(s.cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: s.cfg.Admin.Username,
		Email:    s.cfg.Admin.Email,
		Password: hashedPassword,
		FullName: "Administrator",
		Role:     string(domain.RoleAdmin),
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
