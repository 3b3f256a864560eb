// handlers/leaderboard.go - public standings
package handlers

import (
	"encoding/json"
	"log"

	"thywilluche/database"
	"thywilluche/models"
	"thywilluche/services"
	"thywilluche/utils"

	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard returns the current standings snapshot ordered by rank.
// Pages are served from the redis cache when it is configured.
func GetLeaderboard(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	if cached := services.CachedStandings(c.Context(), page, limit); cached != "" {
		c.Set("Content-Type", "application/json")
		return c.SendString(cached)
	}

	db := database.GetDB()

	var total int64
	db.Model(&models.LeaderboardEntry{}).Count(&total)

	var entries []models.LeaderboardEntry
	if err := db.Preload("User").
		Order("rank ASC").
		Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		log.Printf("Failed to fetch leaderboard: %v", err)
		return utils.Fail(c, 500, "Failed to fetch leaderboard")
	}

	payload := fiber.Map{
		"success": true,
		"data":    entries,
		"total":   total,
		"page":    page,
		"limit":   limit,
	}

	if body, err := json.Marshal(payload); err == nil {
		services.StoreStandings(c.Context(), page, limit, string(body))
	}

	return c.JSON(payload)
}

// GetUserRank returns one user's snapshot row
func GetUserRank(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return utils.Fail(c, 404, "User not on leaderboard")
	}

	db := database.GetDB()

	var entry models.LeaderboardEntry
	if err := db.Preload("User").
		Where("user_id = ?", uint(userID)).
		First(&entry).Error; err != nil {
		return utils.Fail(c, 404, "User not on leaderboard")
	}

	return utils.OK(c, entry)
}
