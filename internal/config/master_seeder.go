package config

import (
	"errors"
	"log"

	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/core/domain"

	"gorm.io/gorm"
)

// defaultMembershipTypes is the starter catalog
var defaultMembershipTypes = []models.MembershipType{
	{
		Name:           "Standard Monthly",
		Description:    "Member prices at all partner restaurants",
		Price:          9.99,
		DurationInDays: 30,
		Category:       string(domain.CategoryStandard),
		BillingCycle:   string(domain.BillingMonthly),
	},
	{
		Name:           "Standard Yearly",
		Description:    "Member prices at all partner restaurants, billed yearly",
		Price:          99.00,
		DurationInDays: 365,
		Category:       string(domain.CategoryStandard),
		BillingCycle:   string(domain.BillingYearly),
	},
	{
		Name:           "VIP Quarterly",
		Description:    "Priority booking and VIP lounges, requires identity verification",
		Price:          59.00,
		DurationInDays: 90,
		Category:       string(domain.CategoryVIP),
		BillingCycle:   string(domain.BillingQuarterly),
	},
}

// SeedMembershipTypes seeds the default membership catalog by name
func SeedMembershipTypes(db *gorm.DB) error {
	for _, mt := range defaultMembershipTypes {
		mt := mt
		var existing models.MembershipType
		err := db.Where("name = ?", mt.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&mt).Error; err != nil {
			return err
		}
		log.Printf("   Created membership_type: %s", mt.Name)
	}

	log.Println("✅ Membership catalog seeded successfully")
	return nil
}
