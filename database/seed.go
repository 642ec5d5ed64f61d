package database

import (
	"log"

	"github.com/raulcamp/good-deeds/models"

	"gorm.io/gorm"
)

// defaultRewards is the static catalog. Internal rewards are fulfilled by
// the platform and granted unredeemed; external ones are handed over at
// acquisition and granted already redeemed.
var defaultRewards = []models.Reward{
	{Name: "Coffee on us", Source: "GoodDeeds", Internal: true, Description: "A coffee voucher redeemable at the community stand.", KudosValue: 20},
	{Name: "Movie night ticket", Source: "Local Cinema", Internal: false, Description: "One ticket for any regular screening.", KudosValue: 50},
	{Name: "Community garden plot", Source: "GoodDeeds", Internal: true, Description: "A season's use of a shared garden plot.", KudosValue: 120},
	{Name: "Bakery box", Source: "Corner Bakery", Internal: false, Description: "A box of assorted pastries.", KudosValue: 35},
	{Name: "Profile badge", Source: "GoodDeeds", Internal: true, Description: "A helper badge displayed on your profile.", KudosValue: 10},
}

// SeedRewards inserts the default reward catalog when the table is empty.
// Safe to call on every startup.
func SeedRewards(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Reward{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if err := db.Create(&defaultRewards).Error; err != nil {
		return err
	}
	log.Printf("[database] seeded %d rewards", len(defaultRewards))
	return nil
}
