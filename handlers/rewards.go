// handlers/rewards.go - player reward history
package handlers

import (
	"log"

	"thywilluche/database"
	"thywilluche/middleware"
	"thywilluche/models"
	"thywilluche/utils"

	"github.com/gofiber/fiber/v2"
)

// GetMyRewards returns everything the caller has earned: badges, the points
// ledger with its running total, discount codes and book credits.
func GetMyRewards(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return utils.Fail(c, 401, "Unauthorized")
	}

	db := database.GetDB()

	var badges []models.UserBadge
	if err := db.Preload("Badge").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&badges).Error; err != nil {
		log.Printf("Failed to fetch badges for user %d: %v", userID, err)
		return utils.Fail(c, 500, "Failed to fetch rewards")
	}

	var ledger []models.UserPoints
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&ledger).Error; err != nil {
		log.Printf("Failed to fetch points for user %d: %v", userID, err)
		return utils.Fail(c, 500, "Failed to fetch rewards")
	}

	// The total is always derived from the ledger, never stored
	var totalPoints int64
	db.Model(&models.UserPoints{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&totalPoints)

	var discountCodes []models.DiscountCode
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&discountCodes).Error; err != nil {
		log.Printf("Failed to fetch discount codes for user %d: %v", userID, err)
		return utils.Fail(c, 500, "Failed to fetch rewards")
	}

	var bookCredits []models.BookCredit
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookCredits).Error; err != nil {
		log.Printf("Failed to fetch book credits for user %d: %v", userID, err)
		return utils.Fail(c, 500, "Failed to fetch rewards")
	}

	return utils.OK(c, fiber.Map{
		"badges":         badges,
		"points_ledger":  ledger,
		"total_points":   totalPoints,
		"discount_codes": discountCodes,
		"book_credits":   bookCredits,
	})
}
